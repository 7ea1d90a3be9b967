package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"

	"recipebook/internal/domain"
)

// maxListed caps how many recipes one reply lists; Telegram rejects
// messages over 4096 characters.
const maxListed = 20

const (
	viewPrefix = "view:"
	favPrefix  = "fav:"
)

type addSection int

const (
	sectionNone addSection = iota
	sectionIngredients
	sectionSteps
)

// commandArgs strips the leading /command (and any @botname) from text.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	i := strings.IndexAny(text, " \t\n")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+1:])
}

// ParseAddMessage reads an /add message body. The first line is the title;
// "Category:" sets the category and "Ingredients:" / "Steps:" start lists,
// one item per line. The draft is not validated.
func ParseAddMessage(body string) domain.Draft {
	var (
		d       domain.Draft
		section = sectionNone
	)
	for _, line := range domain.SplitLines(body) {
		if d.Title == "" {
			d.Title = line
			continue
		}
		if value, ok := header(line, "category:"); ok {
			d.Category = value
			section = sectionNone
			continue
		}
		if value, ok := header(line, "ingredients:"); ok {
			section = sectionIngredients
			line = value
		} else if value, ok := header(line, "steps:"); ok {
			section = sectionSteps
			line = value
		}
		line = trimBullet(line)
		if line == "" {
			continue
		}
		switch section {
		case sectionIngredients:
			d.Ingredients = append(d.Ingredients, line)
		case sectionSteps:
			d.Steps = append(d.Steps, line)
		}
	}
	return d
}

// header matches a case-insensitive "name:" prefix and returns the rest.
func header(line, name string) (string, bool) {
	if len(line) < len(name) || !strings.EqualFold(line[:len(name)], name) {
		return "", false
	}
	return strings.TrimSpace(line[len(name):]), true
}

func trimBullet(line string) string {
	for _, bullet := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, bullet) {
			return strings.TrimSpace(line[len(bullet):])
		}
	}
	return line
}

// FormatList renders recipes as an HTML-mode message.
func FormatList(heading string, recipes []domain.Recipe) string {
	if len(recipes) == 0 {
		return fmt.Sprintf("<b>%s</b>\nNothing here yet.", html.EscapeString(heading))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> (%d)\n", html.EscapeString(heading), len(recipes))
	for i, r := range recipes {
		if i == maxListed {
			fmt.Fprintf(&b, "…and %d more", len(recipes)-maxListed)
			break
		}
		mark := ""
		if r.Favorite {
			mark = " ❤️"
		}
		fmt.Fprintf(&b, "%d. %s <i>%s</i>%s\n", i+1,
			html.EscapeString(r.Title), html.EscapeString(r.CategoryLabel()), mark)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDetail renders one recipe as an HTML-mode message.
func FormatDetail(r domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n<i>%s</i>\n", html.EscapeString(r.Title), html.EscapeString(r.CategoryLabel()))

	b.WriteString("\n<b>Ingredients</b>\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(ing))
	}
	b.WriteString("\n<b>Steps</b>\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, html.EscapeString(step))
	}
	return strings.TrimRight(b.String(), "\n")
}

// listKeyboard offers view and favorite buttons for the listed recipes.
func listKeyboard(recipes []domain.Recipe) *models.InlineKeyboardMarkup {
	if len(recipes) == 0 {
		return nil
	}
	if len(recipes) > maxListed {
		recipes = recipes[:maxListed]
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: truncate(r.Title, 32), CallbackData: viewPrefix + r.ID},
			{Text: favoriteIcon(r.Favorite), CallbackData: favPrefix + r.ID},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func favoriteIcon(on bool) string {
	if on {
		return "💖"
	}
	return "🤍"
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
