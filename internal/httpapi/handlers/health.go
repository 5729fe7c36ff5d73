package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"matchday/internal/httpkit"
	"matchday/internal/pkg/errors"
	"matchday/internal/pkg/middleware"
)

type healthResponse struct {
	Status          string `json:"status"`
	RenderMode      string `json:"renderMode"`
	StorageProvider string `json:"storageProvider"`
	JobStore        string `json:"jobStore"`
}

// Health reports liveness and the service's wiring.
//
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		RenderMode:      h.cfg.RenderMode,
		StorageProvider: h.storage.Provider(),
		JobStore:        h.cfg.JobStore,
	})
}

// ServeArtifact serves a locally rendered file from the artifact
// directory. Path traversal out of the directory is rejected.
//
// GET /render/artifacts/*
func (h *Handlers) ServeArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")

	clean := filepath.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		middleware.HandleError(w, r, h.log, errors.Validation("invalid artifact path"))
		return
	}

	full := filepath.Join(h.cfg.ArtifactDir, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		middleware.HandleError(w, r, h.log, errors.NotFound("artifact", clean))
		return
	}

	http.ServeFile(w, r, full)
}
