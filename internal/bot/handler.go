// Package bot is a Telegram front end over the recipe controller.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"recipebook/internal/catalog"
	"recipebook/internal/config"
	"recipebook/internal/controller"
	"recipebook/internal/domain"
)

const helpText = `Commands:
/list - all recipes
/favorites - favorite recipes
/search &lt;text&gt; - search titles, categories and ingredients
/import &lt;url&gt; - import a recipe page
/add - add a recipe, for example:

/add Pancakes
Category: Breakfast
Ingredients:
Flour
Milk
Steps:
Mix
Fry`

// DraftImporter turns a URL into a recipe draft.
type DraftImporter interface {
	Import(ctx context.Context, url string) (domain.Draft, error)
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot      *tgbot.Bot
	ctrl     *controller.Controller
	importer DraftImporter
	allowed  map[int64]struct{}
	log      logrus.FieldLogger
}

// NewHandler creates a new bot handler instance. importer may be nil, which
// disables /import.
func NewHandler(cfg config.Config, ctrl *controller.Controller, importer DraftImporter, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		ctrl:     ctrl,
		importer: importer,
		allowed:  make(map[int64]struct{}, len(cfg.AllowedChatIDs)),
		log:      log,
	}
	for _, id := range cfg.AllowedChatIDs {
		h.allowed[id] = struct{}{}
	}
	if len(h.allowed) == 0 {
		log.Warn("ALLOWED_CHAT_IDS is empty, every chat will be ignored")
	}

	b, err := tgbot.New(cfg.TelegramBotToken,
		tgbot.WithDefaultHandler(h.defaultHandler),
		tgbot.WithMiddlewares(h.restrictChats),
	)
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

func (h *Handler) registerHandlers() {
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, h.startHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, h.startHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/list", tgbot.MatchTypePrefix, h.listHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/favorites", tgbot.MatchTypePrefix, h.favoritesHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/search", tgbot.MatchTypePrefix, h.searchHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/add", tgbot.MatchTypePrefix, h.addHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/import", tgbot.MatchTypePrefix, h.importHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, viewPrefix, tgbot.MatchTypePrefix, h.viewCallback)
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, favPrefix, tgbot.MatchTypePrefix, h.favoriteCallback)
	h.log.Info("Registered command handlers")
}

// restrictChats drops updates from chats missing from ALLOWED_CHAT_IDS. The
// chat id is logged so the owner can find and allow their own chat.
func (h *Handler) restrictChats(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		chatID, ok := updateChatID(update)
		if !ok {
			return
		}
		if _, allowed := h.allowed[chatID]; !allowed {
			h.log.WithField("chat_id", chatID).Warn("Ignoring update from chat not in ALLOWED_CHAT_IDS")
			return
		}
		next(ctx, b, update)
	}
}

// Start polls Telegram for updates until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.messageLog(update).Info("Received /start command")
	h.send(ctx, b, update.Message.Chat.ID, "Welcome to your recipe book!\n\n"+helpText, nil)
}

func (h *Handler) listHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.sendList(ctx, b, update, "Recipes", catalog.Criteria{})
}

func (h *Handler) favoritesHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.sendList(ctx, b, update, "Favorites", catalog.Criteria{FavoritesOnly: true})
}

func (h *Handler) searchHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	query := commandArgs(update.Message.Text)
	if query == "" {
		h.send(ctx, b, update.Message.Chat.ID, "Usage: /search &lt;text&gt;", nil)
		return
	}
	h.sendList(ctx, b, update, "Results for "+query, catalog.Criteria{Query: query})
}

// sendList filters the whole collection without touching the page's filters.
func (h *Handler) sendList(ctx context.Context, b *tgbot.Bot, update *models.Update, heading string, c catalog.Criteria) {
	var recipes []domain.Recipe
	err := h.ctrl.Do(ctx, func(ctrl *controller.Controller) {
		recipes = catalog.Filter(ctrl.Recipes(), c)
	})
	if err != nil {
		h.messageLog(update).WithError(err).Warn("Controller unavailable")
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, FormatList(heading, recipes), listKeyboard(recipes))
}

func (h *Handler) addHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	draft := ParseAddMessage(commandArgs(update.Message.Text))
	h.create(ctx, b, update, draft)
}

func (h *Handler) importHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	if h.importer == nil {
		h.send(ctx, b, chatID, "Import is disabled.", nil)
		return
	}
	rawURL := commandArgs(update.Message.Text)
	log := h.messageLog(update).WithField("url", rawURL)

	draft, err := h.importer.Import(ctx, rawURL)
	if err != nil {
		log.WithError(err).Warn("Import failed")
		h.send(ctx, b, chatID, "Could not import a recipe from that page.", nil)
		return
	}
	h.create(ctx, b, update, draft)
}

func (h *Handler) create(ctx context.Context, b *tgbot.Bot, update *models.Update, draft domain.Draft) {
	chatID := update.Message.Chat.ID
	var (
		recipe domain.Recipe
		err    error
	)
	doErr := h.ctrl.Do(ctx, func(ctrl *controller.Controller) { recipe, err = ctrl.AddRecipe(ctx, draft) })
	if doErr != nil {
		h.messageLog(update).WithError(doErr).Warn("Controller unavailable")
		return
	}
	if errors.Is(err, domain.ErrValidation) {
		h.send(ctx, b, chatID, domain.ValidationMessage, nil)
		return
	}
	if err != nil {
		h.messageLog(update).WithError(err).Error("Recipe not persisted")
	}
	h.messageLog(update).WithField("recipe_id", recipe.ID).Info("Recipe added from chat")
	h.send(ctx, b, chatID, "Saved!\n\n"+FormatDetail(recipe), listKeyboard([]domain.Recipe{recipe}))
}

func (h *Handler) viewCallback(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	id := strings.TrimPrefix(query.Data, viewPrefix)

	var (
		recipe domain.Recipe
		ok     bool
	)
	if err := h.ctrl.Do(ctx, func(ctrl *controller.Controller) { recipe, ok = ctrl.Recipe(id) }); err != nil {
		h.log.WithError(err).Warn("Controller unavailable")
		return
	}
	if !ok {
		h.answer(ctx, b, query.ID, "That recipe is gone.")
		return
	}
	h.answer(ctx, b, query.ID, "")
	h.send(ctx, b, callbackChatID(query), FormatDetail(recipe), listKeyboard([]domain.Recipe{recipe}))
}

func (h *Handler) favoriteCallback(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	id := strings.TrimPrefix(query.Data, favPrefix)

	var (
		recipe domain.Recipe
		ok     bool
		err    error
	)
	doErr := h.ctrl.Do(ctx, func(ctrl *controller.Controller) {
		err = ctrl.ToggleFavorite(ctx, id)
		recipe, ok = ctrl.Recipe(id)
	})
	if doErr != nil {
		h.log.WithError(doErr).Warn("Controller unavailable")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("recipe_id", id).Error("Favorite toggle not persisted")
	}
	switch {
	case !ok:
		h.answer(ctx, b, query.ID, "That recipe is gone.")
	case recipe.Favorite:
		h.answer(ctx, b, query.ID, "Added to favorites")
	default:
		h.answer(ctx, b, query.ID, "Removed from favorites")
	}
}

func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.messageLog(update).WithField("text", update.Message.Text).Debug("Received unhandled message")
	h.send(ctx, b, update.Message.Chat.ID, helpText, nil)
}

func (h *Handler) send(ctx context.Context, b *tgbot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) answer(ctx context.Context, b *tgbot.Bot, queryID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to answer callback query")
	}
}

func (h *Handler) messageLog(update *models.Update) logrus.FieldLogger {
	fields := logrus.Fields{"chat_id": update.Message.Chat.ID}
	if update.Message.From != nil {
		fields["user_id"] = update.Message.From.ID
	}
	return h.log.WithFields(fields)
}

func updateChatID(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		return callbackChatID(update.CallbackQuery), true
	}
	return 0, false
}

// callbackChatID prefers the chat of the message carrying the button and
// falls back to the user's private chat.
func callbackChatID(q *models.CallbackQuery) int64 {
	if q.Message.Message != nil {
		return q.Message.Message.Chat.ID
	}
	return q.From.ID
}
