package view

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/domain"
)

func setupUI(t *testing.T) (*Document, Bindings) {
	t.Helper()
	doc := NewDocument(DefaultElementIDs...)
	ui, err := Bind(doc)
	require.NoError(t, err)
	return doc, ui
}

func soup() domain.Recipe {
	return domain.Recipe{
		ID:          "r1",
		Title:       "Soup",
		Category:    "Dinner",
		Ingredients: []string{"Water", "Salt"},
		Steps:       []string{"Boil water", "Add salt"},
		Created:     time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
	}
}

func TestBind_MissingElement(t *testing.T) {
	_, err := Bind(NewDocument(RootID, RecipesSectionID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EmptyHintID)
}

func TestRenderList_Cards(t *testing.T) {
	_, ui := setupUI(t)
	fav := soup()
	fav.ID = "r2"
	fav.Title = "Cake"
	fav.Category = ""
	fav.Favorite = true
	fav.Image = "data:image/png;base64,iVBORw0KGgo="

	require.NoError(t, NewRenderer().RenderList(ui, []domain.Recipe{fav, soup()}))

	html := string(ui.RecipesSection.HTML())
	assert.True(t, ui.EmptyHint.Hidden())
	assert.Equal(t, 2, strings.Count(html, `<article class="card"`))
	assert.Less(t, strings.Index(html, "Cake"), strings.Index(html, "Soup"), "cards keep sequence order")
	assert.Contains(t, html, "Uncategorized")
	assert.Contains(t, html, "Dinner")
	assert.Contains(t, html, "2 ingredients")
	assert.Contains(t, html, "💖")
	assert.Contains(t, html, "🤍")
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, html, `src="data:image/svg&#43;xml`, "soup falls back to the placeholder")
	assert.Contains(t, html, `data-action="copy" data-id="r1"`)
	assert.Contains(t, html, `data-action="view" data-id="r2"`)
}

func TestRenderList_EmptyShowsHint(t *testing.T) {
	_, ui := setupUI(t)
	r := NewRenderer()

	require.NoError(t, r.RenderList(ui, []domain.Recipe{soup()}))
	require.NoError(t, r.RenderList(ui, nil))

	assert.False(t, ui.EmptyHint.Hidden())
	assert.Contains(t, string(ui.EmptyHint.HTML()), "No recipes")
	assert.Empty(t, ui.RecipesSection.HTML())
}

func TestRenderList_EscapesUserText(t *testing.T) {
	_, ui := setupUI(t)
	rec := soup()
	rec.Title = `<script>alert("x")</script>`
	rec.Category = "<b>Bold</b> & co"

	require.NoError(t, NewRenderer().RenderList(ui, []domain.Recipe{rec}))

	html := string(ui.RecipesSection.HTML())
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&lt;b&gt;Bold&lt;/b&gt; &amp; co")
}

func TestRenderList_RejectsNonImageData(t *testing.T) {
	_, ui := setupUI(t)
	rec := soup()
	rec.Image = "javascript:alert(1)"

	require.NoError(t, NewRenderer().RenderList(ui, []domain.Recipe{rec}))

	html := string(ui.RecipesSection.HTML())
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "data:image/svg")
}

func TestRenderDetail(t *testing.T) {
	_, ui := setupUI(t)
	r := NewRenderer()
	r.now = func() time.Time { return time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC) }
	rec := soup()
	rec.Steps = []string{"Boil <water>", "Add salt & stir"}

	require.NoError(t, r.RenderDetail(ui.ViewContent, rec))

	html := string(ui.ViewContent.HTML())
	assert.Contains(t, html, `<h2 class="detail-title">Soup</h2>`)
	assert.Contains(t, html, "Dinner")
	assert.Contains(t, html, "Added: "+rec.Created.Local().Format("Jan 2, 2006 3:04 PM"))
	assert.Contains(t, html, "3 days ago")
	assert.Contains(t, html, `<ul class="ingredients"><li>Water</li><li>Salt</li></ul>`)
	assert.Contains(t, html, `<ol class="steps"><li>Boil &lt;water&gt;</li><li>Add salt &amp; stir</li></ol>`)
	assert.NotContains(t, html, "<img", "no image without photo")
}

func TestRenderCategories(t *testing.T) {
	_, ui := setupUI(t)
	r := NewRenderer()

	require.NoError(t, r.RenderCategories(ui.CategoryFilter, []string{"Breakfast", "Dinner"}, "Dinner"))
	html := string(ui.CategoryFilter.HTML())
	assert.Contains(t, html, `<option value="all">All categories</option>`)
	assert.Contains(t, html, `<option value="Dinner" selected>Dinner</option>`)
	assert.Contains(t, html, `<option value="Breakfast">Breakfast</option>`)

	require.NoError(t, r.RenderCategories(ui.CategoryFilter, []string{"Dinner"}, "Lunch"))
	assert.Contains(t, string(ui.CategoryFilter.HTML()), `<option value="Lunch" selected>Lunch</option>`)

	require.NoError(t, r.RenderCategories(ui.CategoryFilter, nil, ""))
	assert.Contains(t, string(ui.CategoryFilter.HTML()), `<option value="all" selected>`)
}

func TestRenderForm(t *testing.T) {
	_, ui := setupUI(t)
	require.NoError(t, NewRenderer().RenderForm(ui.RecipeForm, []string{"Dinner", "Fish & Chips"}))

	html := string(ui.RecipeForm.HTML())
	for _, field := range []string{"title", "category", "ingredients", "steps", "image"} {
		assert.Contains(t, html, `name="`+field+`"`)
	}
	assert.Contains(t, html, `list="knownCategories"`)
	assert.Contains(t, html, `<datalist id="knownCategories"><option value="Dinner"><option value="Fish &amp; Chips"></datalist>`)
}

func TestPlaceholder_EscapesTitle(t *testing.T) {
	src := string(Placeholder(`<b>Fish & Chips</b>`))
	require.True(t, strings.HasPrefix(src, "data:image/svg+xml;charset=utf-8,"))

	svg, err := url.PathUnescape(strings.TrimPrefix(src, "data:image/svg+xml;charset=utf-8,"))
	require.NoError(t, err)
	assert.Contains(t, svg, "&lt;b&gt;Fish &amp; Chips&lt;/b&gt;")
	assert.Contains(t, svg, "<rect width='100%' height='100%'")
	assert.NotContains(t, svg, "<b>")
}

func TestFavoritesLabel(t *testing.T) {
	assert.Equal(t, "❤️ Favorites", FavoritesLabel(false))
	assert.Equal(t, "❤️ Viewing Favorites", FavoritesLabel(true))
}
