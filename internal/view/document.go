// Package view renders recipes into HTML fragments and keeps them in a
// document of named elements that a display surface can mirror.
package view

import (
	"html/template"
	"sort"
	"strings"
	"sync"
)

// Element IDs known to the page.
const (
	RootID           = "root"
	RecipesSectionID = "recipesSection"
	EmptyHintID      = "emptyHint"
	AddModalID       = "addModal"
	ViewModalID      = "viewModal"
	ViewContentID    = "viewContent"
	RecipeFormID     = "recipeForm"
	FavoritesBtnID   = "favoritesBtn"
	CategoryFilterID = "categoryFilter"
	NoticeID         = "notice"
)

// DefaultElementIDs lists every element a full page carries.
var DefaultElementIDs = []string{
	RootID, RecipesSectionID, EmptyHintID, AddModalID, ViewModalID,
	ViewContentID, RecipeFormID, FavoritesBtnID, CategoryFilterID, NoticeID,
}

// Document is a set of named elements. Writes bump a version number and wake
// subscribers; it is safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
	version  uint64
	subs     map[chan struct{}]struct{}
}

// NewDocument creates a document holding an empty element for every id.
func NewDocument(ids ...string) *Document {
	d := &Document{
		elements: make(map[string]*Element, len(ids)),
		subs:     make(map[chan struct{}]struct{}),
	}
	for _, id := range ids {
		d.elements[id] = &Element{doc: d, classes: map[string]bool{}}
	}
	return d
}

// Lookup returns the element with the given id.
func (d *Document) Lookup(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	return el, ok
}

// Subscribe returns a channel that receives a value after changes, and a
// function that cancels the subscription. Bursts of changes coalesce.
func (d *Document) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	return ch, func() {
		d.mu.Lock()
		delete(d.subs, ch)
		d.mu.Unlock()
	}
}

// Snapshot copies the current state of every element.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Snapshot{Version: d.version, Elements: make(map[string]ElementState, len(d.elements))}
	for id, el := range d.elements {
		s.Elements[id] = el.stateLocked()
	}
	return s
}

// mutate applies fn under the write lock and notifies subscribers.
func (d *Document) mutate(el *Element, fn func()) {
	d.mu.Lock()
	fn()
	d.version++
	el.version = d.version
	for ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	d.mu.Unlock()
}

// Snapshot is an immutable copy of a document.
type Snapshot struct {
	Version  uint64                  `json:"version"`
	Elements map[string]ElementState `json:"elements"`
}

// Element returns the state for id, or a zero state.
func (s Snapshot) Element(id string) ElementState {
	return s.Elements[id]
}

// ElementState is the serializable state of one element.
type ElementState struct {
	HTML    template.HTML `json:"html"`
	Hidden  bool          `json:"hidden"`
	Classes []string      `json:"classes"`
	Version uint64        `json:"version"`
}

// ClassList joins the classes for a class attribute.
func (s ElementState) ClassList() string {
	return strings.Join(s.Classes, " ")
}

// Element is one named node of a Document.
type Element struct {
	doc     *Document
	html    template.HTML
	hidden  bool
	classes map[string]bool
	version uint64
}

// SetHTML replaces the element content with trusted, already-escaped markup.
func (e *Element) SetHTML(h template.HTML) {
	e.doc.mutate(e, func() { e.html = h })
}

// SetText replaces the element content with escaped plain text.
func (e *Element) SetText(s string) {
	e.SetHTML(template.HTML(template.HTMLEscapeString(s)))
}

// Show clears the hidden flag.
func (e *Element) Show() {
	e.doc.mutate(e, func() { e.hidden = false })
}

// Hide sets the hidden flag.
func (e *Element) Hide() {
	e.doc.mutate(e, func() { e.hidden = true })
}

// SetClass adds or removes a CSS class.
func (e *Element) SetClass(class string, on bool) {
	e.doc.mutate(e, func() {
		if on {
			e.classes[class] = true
		} else {
			delete(e.classes, class)
		}
	})
}

// HTML returns the current content.
func (e *Element) HTML() template.HTML {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.html
}

// Hidden reports whether the element is hidden.
func (e *Element) Hidden() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.hidden
}

// HasClass reports whether class is set.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.classes[class]
}

func (e *Element) stateLocked() ElementState {
	classes := make([]string, 0, len(e.classes))
	for c := range e.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return ElementState{HTML: e.html, Hidden: e.hidden, Classes: classes, Version: e.version}
}
