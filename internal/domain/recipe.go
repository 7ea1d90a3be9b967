package domain

import (
	"strings"
	"time"
)

// Recipe represents one user-authored dish entry as stored in the catalog.
type Recipe struct {
	// ID is unique across the collection and never changes.
	ID string `json:"id"`

	// Title is the non-empty display name.
	Title string `json:"title"`

	// Category is a free-text label. Empty renders as "Uncategorized".
	Category string `json:"category"`

	// Ingredients holds at least one non-empty line, in authoring order.
	Ingredients []string `json:"ingredients"`

	// Steps holds at least one non-empty line, in authoring order.
	Steps []string `json:"steps"`

	// Image is an embedded data URL ("data:image/png;base64,...") or empty.
	Image string `json:"image"`

	// Favorite marks the recipe for the favorites view.
	Favorite bool `json:"favorite"`

	// Created is fixed when the recipe is added.
	Created time.Time `json:"created"`
}

// UncategorizedLabel is displayed for recipes without a category.
const UncategorizedLabel = "Uncategorized"

// CategoryLabel returns the category or UncategorizedLabel when it is empty.
func (r Recipe) CategoryLabel() string {
	if r.Category == "" {
		return UncategorizedLabel
	}
	return r.Category
}

// IngredientsText joins the ingredients with newlines, the clipboard format.
func (r Recipe) IngredientsText() string {
	return strings.Join(r.Ingredients, "\n")
}

// HasImage reports whether the recipe carries embedded image data.
func (r Recipe) HasImage() bool {
	return strings.HasPrefix(r.Image, "data:image/")
}
