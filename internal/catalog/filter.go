package catalog

import (
	"sort"
	"strings"

	"recipebook/internal/domain"
)

// AllCategories is the category selector value meaning "no constraint".
const AllCategories = "all"

// Criteria is the view state the filter pipeline narrows by.
type Criteria struct {
	FavoritesOnly bool
	Category      string
	Query         string
}

// Filter returns the recipes matching c, preserving their relative order.
// Stages run favorites, then category, then the free-text query; empty
// values impose no constraint.
func Filter(recipes []domain.Recipe, c Criteria) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(recipes))
	out = append(out, recipes...)

	if c.FavoritesOnly {
		out = keep(out, func(r domain.Recipe) bool { return r.Favorite })
	}

	if c.Category != "" && c.Category != AllCategories {
		out = keep(out, func(r domain.Recipe) bool { return r.Category == c.Category })
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		out = keep(out, func(r domain.Recipe) bool { return matchesQuery(r, q) })
	}
	return out
}

// matchesQuery expects q already lower-cased.
func matchesQuery(r domain.Recipe, q string) bool {
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(strings.Join(r.Ingredients, " ")), q) ||
		strings.Contains(strings.ToLower(r.Category), q)
}

func keep(recipes []domain.Recipe, pred func(domain.Recipe) bool) []domain.Recipe {
	out := recipes[:0]
	for _, r := range recipes {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories in the collection, sorted.
func Categories(recipes []domain.Recipe) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recipes {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}
