package view

import "fmt"

// Bindings are the elements the controller drives, resolved once at startup.
type Bindings struct {
	Root           *Element
	RecipesSection *Element
	EmptyHint      *Element
	AddModal       *Element
	ViewModal      *Element
	ViewContent    *Element
	RecipeForm     *Element
	FavoritesBtn   *Element
	CategoryFilter *Element
	Notice         *Element
}

// Bind resolves every element the controller needs from doc.
func Bind(doc *Document) (Bindings, error) {
	var b Bindings
	targets := []struct {
		id  string
		dst **Element
	}{
		{RootID, &b.Root},
		{RecipesSectionID, &b.RecipesSection},
		{EmptyHintID, &b.EmptyHint},
		{AddModalID, &b.AddModal},
		{ViewModalID, &b.ViewModal},
		{ViewContentID, &b.ViewContent},
		{RecipeFormID, &b.RecipeForm},
		{FavoritesBtnID, &b.FavoritesBtn},
		{CategoryFilterID, &b.CategoryFilter},
		{NoticeID, &b.Notice},
	}
	for _, t := range targets {
		el, ok := doc.Lookup(t.id)
		if !ok {
			return Bindings{}, fmt.Errorf("bind %s: element missing", t.id)
		}
		*t.dst = el
	}
	return b, nil
}
