package domain

import "strings"

// Draft is unvalidated input for a new recipe, as collected from a form,
// a chat message or an imported page.
type Draft struct {
	Title       string
	Category    string
	Ingredients []string
	Steps       []string
	Image       string
}

// NewDraft builds a Draft from form-style fields. Ingredients and steps are
// newline-delimited free text.
func NewDraft(title, category, ingredients, steps, image string) Draft {
	return Draft{
		Title:       title,
		Category:    category,
		Ingredients: SplitLines(ingredients),
		Steps:       SplitLines(steps),
		Image:       image,
	}
}

// SplitLines splits text on newlines, trims every line and drops empty ones.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Normalize returns a copy with trimmed title/category and cleaned lines.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Category:    strings.TrimSpace(d.Category),
		Ingredients: cleanLines(d.Ingredients),
		Steps:       cleanLines(d.Steps),
		Image:       strings.TrimSpace(d.Image),
	}
}

// Validate checks a normalized draft. It returns a *ValidationError naming
// every missing field, or nil.
func (d Draft) Validate() error {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if len(d.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(d.Steps) == 0 {
		missing = append(missing, "steps")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
