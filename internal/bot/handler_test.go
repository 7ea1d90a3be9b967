package bot

import (
	"context"
	"io"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRestrictChats(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := &Handler{allowed: map[int64]struct{}{42: {}}, log: log}

	var calls int
	handler := h.restrictChats(func(context.Context, *tgbot.Bot, *models.Update) { calls++ })
	run := func(update *models.Update) int {
		calls = 0
		handler(context.Background(), nil, update)
		return calls
	}

	assert.Equal(t, 1, run(&models.Update{Message: &models.Message{Chat: models.Chat{ID: 42}}}))
	assert.Equal(t, 0, run(&models.Update{Message: &models.Message{Chat: models.Chat{ID: 7}}}), "stranger's message")

	assert.Equal(t, 1, run(&models.Update{CallbackQuery: &models.CallbackQuery{
		From:    models.User{ID: 7},
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 42}}},
	}}))
	assert.Equal(t, 1, run(&models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 42}}}))
	assert.Equal(t, 0, run(&models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 7}}}))

	assert.Equal(t, 0, run(&models.Update{}), "updates without a chat")
}

func TestRestrictChats_EmptyListIgnoresEveryone(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := &Handler{allowed: map[int64]struct{}{}, log: log}

	called := false
	h.restrictChats(func(context.Context, *tgbot.Bot, *models.Update) { called = true })(
		context.Background(), nil, &models.Update{Message: &models.Message{Chat: models.Chat{ID: 42}}})
	assert.False(t, called)
}
