// Package web serves the catalog page and turns HTTP requests into
// controller events.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"recipebook/internal/controller"
	"recipebook/internal/domain"
	"recipebook/internal/view"
)

// DraftImporter turns a URL into a recipe draft.
type DraftImporter interface {
	Import(ctx context.Context, url string) (domain.Draft, error)
}

// Options configure the server.
type Options struct {
	// ListenAddr is accepted as a Host header in addition to loopback names.
	ListenAddr    string
	MaxImageBytes int64
	Importer      DraftImporter
}

// Server exposes the controller over HTTP.
type Server struct {
	ctrl       *controller.Controller
	doc        *view.Document
	importer   DraftImporter
	maxImage   int64
	listenAddr string
	log        logrus.FieldLogger
	mux        *http.ServeMux
	handler    http.Handler
}

// NewServer creates the HTTP front end for ctrl, mirroring doc.
func NewServer(ctrl *controller.Controller, doc *view.Document, opts Options, logger logrus.FieldLogger) *Server {
	s := &Server{
		ctrl:       ctrl,
		doc:        doc,
		importer:   opts.Importer,
		maxImage:   opts.MaxImageBytes,
		listenAddr: opts.ListenAddr,
		log:        logger.WithField("component", "web"),
		mux:        http.NewServeMux(),
	}
	s.routes()
	s.handler = s.guard(s.mux)
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	s.mux.HandleFunc("GET /events", s.handleEvents)
	s.mux.HandleFunc("GET /export.xlsx", s.handleExport)

	s.mux.HandleFunc("POST /add/open", s.event(func(c *controller.Controller) { c.OpenAdd() }))
	s.mux.HandleFunc("POST /add/close", s.event(func(c *controller.Controller) { c.CloseAdd() }))
	s.mux.HandleFunc("POST /view/close", s.event(func(c *controller.Controller) { c.CloseView() }))
	s.mux.HandleFunc("POST /favorites/toggle", s.event(func(c *controller.Controller) { c.ToggleFavoritesMode() }))

	s.mux.HandleFunc("POST /recipes", s.handleCreate)
	s.mux.HandleFunc("POST /import", s.handleImport)
	s.mux.HandleFunc("POST /recipes/{id}/view", s.handleView)
	s.mux.HandleFunc("POST /recipes/{id}/favorite", s.handleFavorite)
	s.mux.HandleFunc("POST /recipes/{id}/copy", s.handleCopy)
	s.mux.HandleFunc("POST /dark/toggle", s.handleDark)
	s.mux.HandleFunc("POST /filter/category", s.handleCategory)
	s.mux.HandleFunc("POST /filter/search", s.handleSearch)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with ctx, which closes open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var state controller.State
	if !s.do(w, r, func(c *controller.Controller) { state = c.State() }) {
		return
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, pageData{Snapshot: s.doc.Snapshot(), State: state}); err != nil {
		s.log.WithError(err).Error("Failed to render page")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Debug("Error writing response")
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.doc.Snapshot())
}

// event adapts a controller call that needs no request data.
func (s *Server) event(fn func(*controller.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.do(w, r, fn) {
			s.done(w, r)
		}
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.do(w, r, func(c *controller.Controller) { c.OpenView(id) }) {
		s.done(w, r)
	}
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var err error
	if !s.do(w, r, func(c *controller.Controller) { err = c.ToggleFavorite(r.Context(), id) }) {
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("recipe_id", id).Error("Favorite toggle not persisted")
	}
	s.done(w, r)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.do(w, r, func(c *controller.Controller) { c.CopyIngredients(id) }) {
		s.done(w, r)
	}
}

func (s *Server) handleDark(w http.ResponseWriter, r *http.Request) {
	var err error
	if !s.do(w, r, func(c *controller.Controller) { err = c.ToggleDarkMode(r.Context()) }) {
		return
	}
	if err != nil {
		s.log.WithError(err).Error("Dark mode not persisted")
	}
	s.done(w, r)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := r.FormValue("category")
	if s.do(w, r, func(c *controller.Controller) { c.SetCategory(category) }) {
		s.done(w, r)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("q")
	if s.do(w, r, func(c *controller.Controller) { c.SetQuery(query) }) {
		s.done(w, r)
	}
}

// handleCreate decodes the upload before entering the controller, so the
// event loop never waits on request bodies.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImage+formOverhead)
	if err := r.ParseMultipartForm(s.maxImage + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.reject(w, r, http.StatusRequestEntityTooLarge, "Image is too large.")
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	image, err := readImage(r, s.maxImage)
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		s.reject(w, r, http.StatusRequestEntityTooLarge, "Image is too large.")
		return
	case errors.Is(err, domain.ErrNotAnImage):
		s.reject(w, r, http.StatusUnprocessableEntity, "The attachment is not an image.")
		return
	case err != nil:
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	draft := domain.NewDraft(
		r.FormValue("title"),
		r.FormValue("category"),
		r.FormValue("ingredients"),
		r.FormValue("steps"),
		image,
	)
	s.submit(w, r, draft)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		http.Error(w, "import disabled", http.StatusNotImplemented)
		return
	}
	rawURL := r.FormValue("url")
	log := s.log.WithField("url", rawURL)

	draft, err := s.importer.Import(r.Context(), rawURL)
	if err != nil {
		log.WithError(err).Warn("Import failed")
		s.reject(w, r, http.StatusBadGateway, "Could not import a recipe from that page.")
		return
	}
	s.submit(w, r, draft)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, draft domain.Draft) {
	var (
		recipe domain.Recipe
		err    error
	)
	if !s.do(w, r, func(c *controller.Controller) { recipe, err = c.Submit(r.Context(), draft) }) {
		return
	}
	if errors.Is(err, domain.ErrValidation) {
		http.Error(w, domain.ValidationMessage, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("recipe_id", recipe.ID).Error("Recipe not persisted")
	}
	s.done(w, r)
}

// reject shows msg on the page and answers with status.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if !s.do(w, r, func(c *controller.Controller) { c.ShowNotice(msg) }) {
		return
	}
	http.Error(w, msg, status)
}

// do runs fn on the controller loop. It writes an error response and
// returns false when the loop is unavailable.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(*controller.Controller)) bool {
	if err := s.ctrl.Do(r.Context(), fn); err != nil {
		s.log.WithError(err).Warn("Controller unavailable")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// done sends plain form posts back to the page; script clients ignore it.
func (s *Server) done(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}
