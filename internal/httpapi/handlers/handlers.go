// Package handlers holds the HTTP endpoints of the media service.
package handlers

import (
	"matchday/internal/assets"
	"matchday/internal/config"
	"matchday/internal/pkg/logger"
	"matchday/internal/ports"
	"matchday/internal/render"
)

// Handlers carries the wired dependencies shared by all endpoints.
type Handlers struct {
	cfg        *config.Config
	log        *logger.Logger
	dispatcher *render.Dispatcher
	tracker    *render.Tracker
	resolver   *assets.Resolver
	storage    ports.StorageProvider
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	dispatcher *render.Dispatcher,
	tracker *render.Tracker,
	resolver *assets.Resolver,
	storage ports.StorageProvider,
) *Handlers {
	return &Handlers{
		cfg:        cfg,
		log:        log.WithComponent("http"),
		dispatcher: dispatcher,
		tracker:    tracker,
		resolver:   resolver,
		storage:    storage,
	}
}

// outputLocation is the URL-resolution context for remote render outputs.
func (h *Handlers) outputLocation() render.OutputLocation {
	return render.OutputLocation{
		FallbackBucket: h.cfg.OutputBucket,
		Region:         h.cfg.Region,
		PublicBaseURL:  h.cfg.PublicBaseURL,
	}
}
