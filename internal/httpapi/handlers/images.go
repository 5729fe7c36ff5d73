package handlers

import (
	"net/http"

	"matchday/internal/compose"
	"matchday/internal/httpkit"
	"matchday/internal/pkg/errors"
	"matchday/internal/pkg/middleware"
)

// Still image dimensions. Goal graphics use the broadcast frame; lineup
// graphics use the social post format.
const (
	goalImageWidth    = 1920
	goalImageHeight   = 1080
	lineupImageWidth  = 1080
	lineupImageHeight = 1350
)

// GoalImage renders a final-score style goal graphic as a PNG.
//
// POST /render/goal-image
func (h *Handlers) GoalImage(w http.ResponseWriter, r *http.Request) {
	h.still(w, r, compose.KindGoal, goalImageWidth, goalImageHeight)
}

// LineupImage renders the starting-eleven graphic as a PNG.
//
// POST /render/lineup-image
func (h *Handlers) LineupImage(w http.ResponseWriter, r *http.Request) {
	h.still(w, r, compose.KindLineup, lineupImageWidth, lineupImageHeight)
}

func (h *Handlers) still(w http.ResponseWriter, r *http.Request, kind compose.Kind, width, height int) {
	var raw map[string]any
	if err := httpkit.DecodeJSON(r, &raw); err != nil {
		middleware.HandleError(w, r, h.log, errors.Validation("invalid JSON body"))
		return
	}

	props, err := compose.Normalize(kind, raw)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	if err := h.resolveAssets(r.Context(), kind, props); err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	data, err := h.dispatcher.RenderStill(r.Context(), kind, props, width, height)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	httpkit.WritePNG(w, data)
}
