package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"recipebook/internal/domain"
)

//go:embed templates/*.html
var tmplFS embed.FS

var fragments = template.Must(template.ParseFS(tmplFS, "templates/*.html"))

// EmptyHint is shown in place of cards when nothing matches.
const EmptyHint = "No recipes to show yet. Add one, or loosen the filters."

// Renderer projects recipes into HTML fragments. It holds no state beyond
// its templates and clock.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewRenderer returns a renderer using the embedded templates.
func NewRenderer() *Renderer {
	return &Renderer{tmpl: fragments, now: time.Now}
}

type cardData struct {
	ID              string
	Title           string
	CategoryLabel   string
	IngredientCount int
	Favorite        bool
	ImageSrc        template.URL
}

type detailData struct {
	Title         string
	CategoryLabel string
	Added         string
	ImageSrc      template.URL
	Ingredients   []string
	Steps         []string
}

// RenderList clears the recipes section and fills it with one card per
// recipe, or shows the empty hint when there are none.
func (r *Renderer) RenderList(ui Bindings, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		ui.RecipesSection.SetHTML("")
		ui.EmptyHint.SetText(EmptyHint)
		ui.EmptyHint.Show()
		return nil
	}

	cards := make([]cardData, 0, len(recipes))
	for _, rec := range recipes {
		src := imageSrc(rec)
		if src == "" {
			src = Placeholder(rec.Title)
		}
		cards = append(cards, cardData{
			ID:              rec.ID,
			Title:           rec.Title,
			CategoryLabel:   rec.CategoryLabel(),
			IngredientCount: len(rec.Ingredients),
			Favorite:        rec.Favorite,
			ImageSrc:        src,
		})
	}

	html, err := r.execute("cards", cards)
	if err != nil {
		return err
	}
	ui.EmptyHint.Hide()
	ui.RecipesSection.SetHTML(html)
	return nil
}

// RenderDetail writes the full recipe into el.
func (r *Renderer) RenderDetail(el *Element, rec domain.Recipe) error {
	html, err := r.execute("detail", detailData{
		Title:         rec.Title,
		CategoryLabel: rec.CategoryLabel(),
		Added:         r.addedLabel(rec.Created),
		ImageSrc:      imageSrc(rec),
		Ingredients:   rec.Ingredients,
		Steps:         rec.Steps,
	})
	if err != nil {
		return err
	}
	el.SetHTML(html)
	return nil
}

// RenderCategories fills a selector with the "all" option plus categories.
// A selected value missing from categories is kept so the selector does not
// silently jump back to "all".
func (r *Renderer) RenderCategories(el *Element, categories []string, selected string) error {
	if selected == "" {
		selected = "all"
	}
	opts := categories
	if selected != "all" && !contains(categories, selected) {
		opts = append(append([]string(nil), categories...), selected)
	}
	html, err := r.execute("categories", struct {
		Categories []string
		Selected   string
	}{opts, selected})
	if err != nil {
		return err
	}
	el.SetHTML(html)
	return nil
}

// RenderForm resets el to a blank creation form whose category field
// suggests the known categories.
func (r *Renderer) RenderForm(el *Element, categories []string) error {
	html, err := r.execute("form", struct{ Categories []string }{categories})
	if err != nil {
		return err
	}
	el.SetHTML(html)
	return nil
}

// FavoritesLabel is the favorites toggle caption for the given mode.
func FavoritesLabel(on bool) string {
	if on {
		return "❤️ Viewing Favorites"
	}
	return "❤️ Favorites"
}

func (r *Renderer) addedLabel(created time.Time) string {
	if created.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)",
		created.Local().Format("Jan 2, 2006 3:04 PM"),
		humanize.RelTime(created, r.now(), "ago", "from now"))
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	// html/template output is already contextually escaped.
	return template.HTML(buf.String()), nil
}

// imageSrc trusts only embedded image data URLs.
func imageSrc(rec domain.Recipe) template.URL {
	if !rec.HasImage() {
		return ""
	}
	return template.URL(rec.Image)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
