package view

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
)

const placeholderSVG = `<svg xmlns='http://www.w3.org/2000/svg' width='600' height='360'>` +
	`<rect width='100%%' height='100%%' fill='#f2efe8'/>` +
	`<text x='50%%' y='50%%' dominant-baseline='middle' text-anchor='middle' ` +
	`font-family='Poppins, sans-serif' font-size='28' fill='#8b5a2b'>%s</text></svg>`

// Placeholder returns an SVG data URL showing title, used for cards whose
// recipe has no photo.
func Placeholder(title string) template.URL {
	svg := fmt.Sprintf(placeholderSVG, html.EscapeString(title))
	return template.URL("data:image/svg+xml;charset=utf-8," + url.PathEscape(svg))
}
