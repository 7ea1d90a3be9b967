package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipebook/internal/domain"
)

var (
	// ErrBadURL is returned for anything but an absolute http(s) URL.
	ErrBadURL = errors.New("not an http(s) url")
	// ErrNoRecipe is returned when a page carries no recognizable recipe.
	ErrNoRecipe = errors.New("no recipe found on page")
)

// ParseRecipePage extracts a draft from page HTML. schema.org Recipe JSON-LD
// wins; microdata and the page title fill in whatever it lacks.
func ParseRecipePage(html string) (domain.Draft, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.Draft{}, fmt.Errorf("parse html: %w", err)
	}

	var d domain.Draft
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if node := findRecipeNode(payload); node != nil {
			d = draftFromJSONLD(node)
			return false
		}
		return true
	})

	if d.Title == "" {
		d.Title = first(doc.Find(`[itemtype*="schema.org/Recipe"] [itemprop="name"]`))
	}
	if len(d.Ingredients) == 0 {
		d.Ingredients = texts(doc.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`))
	}
	if len(d.Steps) == 0 {
		steps := doc.Find(`[itemprop="recipeInstructions"]`)
		if li := steps.Find("li"); li.Length() > 0 {
			d.Steps = texts(li)
		} else {
			d.Steps = texts(steps)
		}
	}
	if d.Category == "" {
		d.Category = first(doc.Find(`[itemprop="recipeCategory"]`))
	}
	if d.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			d.Title = condense(og)
		}
	}
	if d.Title == "" {
		d.Title = first(doc.Find("title"))
	}

	if len(d.Ingredients) == 0 && len(d.Steps) == 0 {
		return d, ErrNoRecipe
	}
	return d, nil
}

// findRecipeNode walks JSON-LD (objects, arrays, @graph) for a Recipe.
func findRecipeNode(v any) map[string]any {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	case map[string]any:
		if isType(node["@type"], "Recipe") {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func draftFromJSONLD(node map[string]any) domain.Draft {
	d := domain.Draft{
		Title:       condense(stringOf(node["name"])),
		Ingredients: stringsOf(node["recipeIngredient"]),
		Steps:       instructions(node["recipeInstructions"]),
	}
	if cats := stringsOf(node["recipeCategory"]); len(cats) > 0 {
		d.Category = cats[0]
	}
	if len(d.Ingredients) == 0 {
		d.Ingredients = stringsOf(node["ingredients"])
	}
	return d
}

// instructions flattens text, HowToStep and HowToSection forms.
func instructions(v any) []string {
	switch t := v.(type) {
	case string:
		return domain.SplitLines(t)
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, instructions(item)...)
		}
		return out
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return instructions(items)
		}
		if text := condense(stringOf(t["text"])); text != "" {
			return []string{text}
		}
		if name := condense(stringOf(t["name"])); name != "" {
			return []string{name}
		}
	}
	return nil
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func stringsOf(v any) []string {
	switch t := v.(type) {
	case string:
		if s := condense(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			if s := condense(stringOf(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func first(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return condense(sel.First().Text())
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := condense(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
