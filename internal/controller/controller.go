// Package controller wires user events to the catalog and the view. All
// state lives on one event loop; surfaces reach it through Do and Post.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"recipebook/internal/catalog"
	"recipebook/internal/clipboard"
	"recipebook/internal/domain"
	"recipebook/internal/storage"
	"recipebook/internal/view"
)

// DefaultSearchDebounce is the delay between the last query change and the
// re-render it triggers.
const DefaultSearchDebounce = 200 * time.Millisecond

// CopiedMessage is shown after ingredients reach the clipboard.
const CopiedMessage = "Ingredients copied to clipboard"

// DarkClass is set on the root element in dark mode.
const DarkClass = "dark"

// State is the UI modality and filter state owned by the controller.
type State struct {
	AddOpen       bool
	ViewingID     string
	FavoritesOnly bool
	Category      string
	Query         string
	DarkMode      bool
}

// Controller reacts to UI events. Its methods must run on its loop; tests
// may call them directly as long as nothing else runs the loop concurrently.
type Controller struct {
	loop     *Loop
	repo     *catalog.Repository
	store    storage.Store
	renderer *view.Renderer
	ui       view.Bindings
	clip     clipboard.Writer
	search   *Debouncer
	log      logrus.FieldLogger

	state State
}

// Options tune controller behaviour.
type Options struct {
	SearchDebounce time.Duration
	QueueSize      int
}

// New creates a controller bound to ui. Call Start before serving events.
func New(repo *catalog.Repository, store storage.Store, renderer *view.Renderer, ui view.Bindings,
	clip clipboard.Writer, logger logrus.FieldLogger, opts Options) *Controller {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if clip == nil {
		clip = clipboard.Noop{}
	}

	loop := NewLoop(opts.QueueSize)
	return &Controller{
		loop:     loop,
		repo:     repo,
		store:    store,
		renderer: renderer,
		ui:       ui,
		clip:     clip,
		search:   NewDebouncer(opts.SearchDebounce, loop.Post),
		log:      logger.WithField("component", "controller"),
		state:    State{Category: catalog.AllCategories},
	}
}

// Run drives the event loop until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.log.Info("Controller loop started")
	c.loop.Run(ctx)
	c.search.Stop()
	c.log.Info("Controller loop stopped")
}

// Do runs fn on the loop and waits for it.
func (c *Controller) Do(ctx context.Context, fn func(*Controller)) error {
	return c.loop.Do(ctx, func() { fn(c) })
}

// Start restores the dark-mode preference and paints the initial view.
func (c *Controller) Start(ctx context.Context) {
	c.state.DarkMode = c.store.LoadFlag(ctx, storage.DarkModeKey)
	c.applyDark()

	c.ui.AddModal.Hide()
	c.ui.ViewModal.Hide()
	c.clearNotice()
	c.resetForm()
	c.refresh()
}

// State returns a copy of the current UI state.
func (c *Controller) State() State {
	return c.state
}

// Criteria returns the filter criteria implied by the current state.
func (c *Controller) Criteria() catalog.Criteria {
	return catalog.Criteria{
		FavoritesOnly: c.state.FavoritesOnly,
		Category:      c.state.Category,
		Query:         c.state.Query,
	}
}

// Recipes returns the whole collection, newest first.
func (c *Controller) Recipes() []domain.Recipe {
	return c.repo.All()
}

// Recipe looks up a recipe by id.
func (c *Controller) Recipe(id string) (domain.Recipe, bool) {
	return c.repo.Get(id)
}

// OpenAdd shows the creation modal.
func (c *Controller) OpenAdd() {
	c.state.AddOpen = true
	c.clearNotice()
	c.ui.AddModal.Show()
}

// CloseAdd hides the creation modal, keeping whatever was typed.
func (c *Controller) CloseAdd() {
	c.state.AddOpen = false
	c.clearNotice()
	c.ui.AddModal.Hide()
}

// Submit creates a recipe from d. A validation error is reported on the
// notice element and leaves the modal open. On success the form is reset,
// the modal closes and the list re-renders.
func (c *Controller) Submit(ctx context.Context, d domain.Draft) (domain.Recipe, error) {
	recipe, err := c.repo.Create(ctx, d)
	if errors.Is(err, domain.ErrValidation) {
		c.setNotice(domain.ValidationMessage)
		return domain.Recipe{}, err
	}
	if err != nil {
		// The record exists in memory; only the write failed.
		c.log.WithError(err).WithField("recipe_id", recipe.ID).Error("Recipe created but not persisted")
	}

	c.refresh()
	c.resetForm()
	c.clearNotice()
	c.state.AddOpen = false
	c.ui.AddModal.Hide()
	return recipe, err
}

// AddRecipe creates a recipe arriving from outside the page, such as a chat
// message. The list re-renders but the add modal and form are left alone.
func (c *Controller) AddRecipe(ctx context.Context, d domain.Draft) (domain.Recipe, error) {
	recipe, err := c.repo.Create(ctx, d)
	if errors.Is(err, domain.ErrValidation) {
		return domain.Recipe{}, err
	}
	if err != nil {
		c.log.WithError(err).WithField("recipe_id", recipe.ID).Error("Recipe created but not persisted")
	}
	c.refresh()
	return recipe, err
}

// OpenView shows the detail modal for id. Unknown ids are ignored.
func (c *Controller) OpenView(id string) {
	recipe, ok := c.repo.Get(id)
	if !ok {
		c.log.WithField("recipe_id", id).Debug("View ignored, recipe not found")
		return
	}
	if err := c.renderer.RenderDetail(c.ui.ViewContent, recipe); err != nil {
		c.log.WithError(err).Error("Failed to render recipe detail")
		return
	}
	c.state.ViewingID = id
	c.ui.ViewModal.Show()
}

// CloseView hides the detail modal.
func (c *Controller) CloseView() {
	c.state.ViewingID = ""
	c.ui.ViewModal.Hide()
}

// ToggleFavorite flips a recipe's favorite flag and re-renders. Unknown ids
// are ignored.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) error {
	found, err := c.repo.ToggleFavorite(ctx, id)
	if !found {
		return nil
	}
	c.refresh()
	return err
}

// ToggleFavoritesMode switches between all recipes and favorites only.
func (c *Controller) ToggleFavoritesMode() {
	c.state.FavoritesOnly = !c.state.FavoritesOnly
	c.refresh()
}

// SetCategory changes the category filter and re-renders immediately.
func (c *Controller) SetCategory(category string) {
	if category == "" {
		category = catalog.AllCategories
	}
	c.state.Category = category
	c.refresh()
}

// SetQuery records the search text; the re-render is debounced.
func (c *Controller) SetQuery(query string) {
	c.state.Query = query
	c.search.Trigger(c.refresh)
}

// ToggleDarkMode flips dark mode, applies it and persists the preference.
func (c *Controller) ToggleDarkMode(ctx context.Context) error {
	c.state.DarkMode = !c.state.DarkMode
	c.applyDark()
	if err := c.store.SaveFlag(ctx, storage.DarkModeKey, c.state.DarkMode); err != nil {
		c.log.WithError(err).Warn("Failed to persist dark mode")
		return err
	}
	return nil
}

// CopyIngredients puts a recipe's ingredients on the clipboard, one per
// line. It reports whether anything was copied.
func (c *Controller) CopyIngredients(id string) bool {
	recipe, ok := c.repo.Get(id)
	if !ok || !c.clip.Available() {
		c.log.WithField("recipe_id", id).Debug("Copy skipped")
		return false
	}
	if err := c.clip.WriteAll(recipe.IngredientsText()); err != nil {
		c.log.WithError(err).Warn("Clipboard write failed")
		return false
	}
	c.setNotice(CopiedMessage)
	return true
}

// refresh re-filters the collection with the current state and re-renders
// every element derived from it. All state changes that affect the list end here.
func (c *Controller) refresh() {
	all := c.repo.All()
	visible := catalog.Filter(all, c.Criteria())

	if err := c.renderer.RenderList(c.ui, visible); err != nil {
		c.log.WithError(err).Error("Failed to render recipe list")
	}
	if err := c.renderer.RenderCategories(c.ui.CategoryFilter, catalog.Categories(all), c.state.Category); err != nil {
		c.log.WithError(err).Error("Failed to render categories")
	}
	c.ui.FavoritesBtn.SetText(view.FavoritesLabel(c.state.FavoritesOnly))
	c.ui.FavoritesBtn.SetClass("active", c.state.FavoritesOnly)

	c.log.WithFields(logrus.Fields{
		"visible": len(visible),
		"total":   len(all),
	}).Debug("View refreshed")
}

func (c *Controller) applyDark() {
	c.ui.Root.SetClass(DarkClass, c.state.DarkMode)
}

func (c *Controller) resetForm() {
	if err := c.renderer.RenderForm(c.ui.RecipeForm, catalog.Categories(c.repo.All())); err != nil {
		c.log.WithError(err).Error("Failed to render recipe form")
	}
}

// ShowNotice reports msg to the user, e.g. a rejected upload.
func (c *Controller) ShowNotice(msg string) {
	c.setNotice(msg)
}

func (c *Controller) setNotice(msg string) {
	c.ui.Notice.SetText(msg)
	c.ui.Notice.Show()
}

func (c *Controller) clearNotice() {
	c.ui.Notice.SetText("")
	c.ui.Notice.Hide()
}
