package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipebook/internal/domain"
)

func soupCollection() []domain.Recipe {
	return []domain.Recipe{
		{ID: "1", Title: "Soup", Category: "Dinner", Ingredients: []string{"Water", "Salt"}, Steps: []string{"Boil"}},
	}
}

func mixedCollection() []domain.Recipe {
	return []domain.Recipe{
		{ID: "4", Title: "Brownies", Category: "Dessert", Ingredients: []string{"Cocoa", "Sea Salt"}, Favorite: true},
		{ID: "3", Title: "Omelette", Category: "Breakfast", Ingredients: []string{"Egg", "Butter"}},
		{ID: "2", Title: "Salad", Category: "", Ingredients: []string{"Lettuce"}, Favorite: true},
		{ID: "1", Title: "Soup", Category: "Dinner", Ingredients: []string{"Water", "Salt"}},
	}
}

func ids(recipes []domain.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_Category(t *testing.T) {
	recipes := soupCollection()

	assert.Len(t, Filter(recipes, Criteria{Category: "Dinner"}), 1)
	assert.Empty(t, Filter(recipes, Criteria{Category: "Lunch"}))
	assert.Len(t, Filter(recipes, Criteria{Category: AllCategories}), 1)
	assert.Len(t, Filter(recipes, Criteria{}), 1)
}

func TestFilter_QueryMatchesIngredientsCaseInsensitively(t *testing.T) {
	recipes := soupCollection()

	for _, q := range []string{"salt", "SALT", "  Salt  ", "water salt"} {
		assert.Len(t, Filter(recipes, Criteria{Query: q}), 1, "query %q", q)
	}
	assert.Empty(t, Filter(recipes, Criteria{Query: "pepper"}))
}

func TestFilter_QueryMatchesTitleAndCategory(t *testing.T) {
	recipes := mixedCollection()

	assert.Equal(t, []string{"3"}, ids(Filter(recipes, Criteria{Query: "omel"})))
	assert.Equal(t, []string{"4"}, ids(Filter(recipes, Criteria{Query: "dessert"})))
	assert.Equal(t, []string{"4", "2", "1"}, ids(Filter(recipes, Criteria{Query: "sal"})))
}

func TestFilter_StagesCompose(t *testing.T) {
	recipes := mixedCollection()

	assert.Equal(t, []string{"4", "2"}, ids(Filter(recipes, Criteria{FavoritesOnly: true})))
	assert.Equal(t, []string{"4"}, ids(Filter(recipes, Criteria{FavoritesOnly: true, Category: "Dessert"})))
	assert.Equal(t, []string{"4"}, ids(Filter(recipes, Criteria{FavoritesOnly: true, Query: "salt"})))
	assert.Empty(t, Filter(recipes, Criteria{FavoritesOnly: true, Category: "Dinner"}))
}

func TestFilter_NoFavoritesYieldsEmpty(t *testing.T) {
	got := Filter(soupCollection(), Criteria{FavoritesOnly: true})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_IsIdempotent(t *testing.T) {
	recipes := mixedCollection()
	for _, c := range []Criteria{
		{},
		{FavoritesOnly: true},
		{Category: "Dinner"},
		{Query: "salt"},
		{FavoritesOnly: true, Category: "Dessert", Query: "cocoa"},
	} {
		once := Filter(recipes, c)
		twice := Filter(once, c)
		assert.Equal(t, ids(once), ids(twice), "criteria %+v", c)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	recipes := mixedCollection()
	before := ids(recipes)

	Filter(recipes, Criteria{FavoritesOnly: true, Query: "salt"})

	assert.Equal(t, before, ids(recipes))
}

func TestCategories(t *testing.T) {
	recipes := append(mixedCollection(), domain.Recipe{ID: "5", Category: "Dinner"})
	assert.Equal(t, []string{"Breakfast", "Dessert", "Dinner"}, Categories(recipes))
	assert.Empty(t, Categories(nil))
}
