package web

import (
	"embed"
	"html/template"

	"recipebook/internal/controller"
	"recipebook/internal/view"
)

//go:embed templates/*.html
var tmplFS embed.FS

var pageTmpl = template.Must(template.ParseFS(tmplFS, "templates/page.html"))

// pageData feeds the full-page template.
type pageData struct {
	Snapshot view.Snapshot
	State    controller.State
}

// El returns the state of the named element.
func (p pageData) El(id string) view.ElementState {
	return p.Snapshot.Element(id)
}
