// Package httpapi assembles the service's HTTP surface.
package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"

	"matchday/internal/config"
	"matchday/internal/httpapi/handlers"
	"matchday/internal/httpkit"
	"matchday/internal/pkg/logger"
	"matchday/internal/pkg/middleware"
)

// requestTimeout bounds one request end to end. Local video renders run
// inside the request, so the window is generous.
const requestTimeout = 15 * time.Minute

// NewRouter wires middleware and routes around the handlers.
func NewRouter(cfg *config.Config, log *logger.Logger, h *handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: cfg.AllowedOrigins,
	}))

	r.Get("/health", h.Health)

	r.Route("/render", func(r chi.Router) {
		r.Post("/start", h.StartRender)
		r.Get("/status", h.RenderStatus)
		r.Post("/wait", h.WaitForRender)
		r.Post("/goal-image", h.GoalImage)
		r.Post("/lineup-image", h.LineupImage)
		r.Get("/artifacts/*", h.ServeArtifact)
	})

	r.Route("/assets", func(r chi.Router) {
		r.Post("/{category}", h.UploadAsset)
		r.Get("/signed-url", h.AssetSignedURL)
		r.Get("/stream/*", h.StreamAsset)
		r.Delete("/*", h.DeleteAsset)
	})

	return r
}
