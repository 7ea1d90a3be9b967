package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recipebook/internal/controller"
	"recipebook/internal/domain"
	"recipebook/internal/export"
)

const keepAlive = 25 * time.Second

// handleEvents streams a document snapshot now and after every change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	changes, cancel := s.doc.Subscribe()
	defer cancel()

	send := func() bool {
		data, err := json.Marshal(s.doc.Snapshot())
		if err != nil {
			s.log.WithError(err).Error("Failed to encode snapshot")
			return false
		}
		if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}
	if !send() {
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			if !send() {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var recipes []domain.Recipe
	if !s.do(w, r, func(c *controller.Controller) { recipes = c.Recipes() }) {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="recipes.xlsx"`)
	if err := export.WriteXLSX(w, recipes); err != nil {
		s.log.WithError(err).Error("Export failed")
	}
}
