package handlers

import (
	"context"
	"net/http"
	"time"

	"matchday/internal/assets"
	"matchday/internal/compose"
	"matchday/internal/httpkit"
	"matchday/internal/pkg/errors"
	"matchday/internal/pkg/middleware"
	"matchday/internal/render"
)

type startRenderRequest struct {
	Composition string         `json:"composition"`
	InputProps  map[string]any `json:"inputProps"`
}

// StartRender validates a composition request, resolves its asset
// references and dispatches the render.
//
// POST /render/start
func (h *Handlers) StartRender(w http.ResponseWriter, r *http.Request) {
	var req startRenderRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		middleware.HandleError(w, r, h.log, errors.Validation("invalid JSON body"))
		return
	}

	kind, err := compose.ParseKind(req.Composition)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	props, err := compose.Normalize(kind, req.InputProps)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	if err := h.resolveAssets(r.Context(), kind, props); err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	handle, err := h.dispatcher.Dispatch(r.Context(), kind, props)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, handle)
}

type statusResponse struct {
	render.Status
	URL  string `json:"url,omitempty"`
	Done bool   `json:"done"`
}

// RenderStatus reports a job's progress and, once known, its output URL.
//
// GET /render/status?bucketName=...&renderId=...
func (h *Handlers) RenderStatus(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucketName")
	renderID := r.URL.Query().Get("renderId")
	if bucket == "" || renderID == "" {
		middleware.HandleError(w, r, h.log,
			errors.ValidationFields("status query is incomplete", missingQueryParams(bucket, renderID)))
		return
	}

	st, err := h.tracker.GetStatus(r.Context(), bucket, renderID)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, statusResponse{
		Status: st,
		URL:    render.BuildOutputURL(st, h.outputLocation()),
		Done:   st.Done() && !st.Failed(),
	})
}

type waitRequest struct {
	BucketName string `json:"bucketName"`
	RenderID   string `json:"renderId"`
}

type waitResponse struct {
	Outcome  render.Outcome `json:"outcome"`
	URL      string         `json:"url,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Progress float64        `json:"progress"`
	Attempts int            `json:"attempts"`
}

// WaitForRender blocks until the job reaches a terminal state or the
// poll budget runs out. Meant for callers that cannot poll themselves.
//
// POST /render/wait
func (h *Handlers) WaitForRender(w http.ResponseWriter, r *http.Request) {
	var req waitRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		middleware.HandleError(w, r, h.log, errors.Validation("invalid JSON body"))
		return
	}
	if req.BucketName == "" || req.RenderID == "" {
		middleware.HandleError(w, r, h.log,
			errors.ValidationFields("wait request is incomplete", missingQueryParams(req.BucketName, req.RenderID)))
		return
	}

	poller := &render.Poller{
		Source:      h.tracker,
		Interval:    time.Duration(h.cfg.PollIntervalMS) * time.Millisecond,
		MaxAttempts: h.cfg.MaxPollAttempts,
		Location:    h.outputLocation(),
		Log:         h.log,
	}

	res, err := poller.Poll(r.Context(), render.JobHandle{
		Mode:       render.ModeForBucket(req.BucketName),
		BucketName: req.BucketName,
		RenderID:   req.RenderID,
	})
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == render.TimedOut {
		status = http.StatusGatewayTimeout
	}
	httpkit.WriteJSON(w, status, waitResponse{
		Outcome:  res.Outcome,
		URL:      res.URL,
		Errors:   res.Errors,
		Progress: res.Progress,
		Attempts: res.Attempts,
	})
}

func missingQueryParams(bucket, renderID string) []string {
	var missing []string
	if bucket == "" {
		missing = append(missing, "bucketName")
	}
	if renderID == "" {
		missing = append(missing, "renderId")
	}
	return missing
}

// resolveAssets rewrites asset references inside normalized props into
// fetchable URLs. Each kind has a known set of reference fields; empty
// references fall back to club defaults where those exist.
func (h *Handlers) resolveAssets(ctx context.Context, kind compose.Kind, props compose.Props) error {
	switch kind {
	case compose.KindGoal:
		for _, f := range []string{"overlayImage", "s3PlayerUrl"} {
			if err := h.resolveField(ctx, props, f, h.cfg.DefaultLogo); err != nil {
				return err
			}
		}
		return h.resolveField(ctx, props, "goalClip", h.cfg.DefaultClip)

	case compose.KindFormation:
		if gk, ok := props["goalkeeper"].(map[string]any); ok {
			if err := h.resolveField(ctx, gk, "image", h.cfg.DefaultLogo); err != nil {
				return err
			}
		}
		for _, line := range []string{"defenders", "midfielders", "attackingMidfielders", "forwards"} {
			entries, ok := props[line].([]any)
			if !ok {
				continue
			}
			for _, entry := range entries {
				p, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				if err := h.resolveField(ctx, p, "image", h.cfg.DefaultLogo); err != nil {
					return err
				}
			}
		}
		return nil

	case compose.KindFinalResult:
		for _, team := range []string{"teamA", "teamB"} {
			t, ok := props[team].(map[string]any)
			if !ok {
				continue
			}
			if err := h.resolveField(ctx, t, "logo", h.cfg.DefaultLogo); err != nil {
				return err
			}
		}
		return nil

	case compose.KindLineup:
		return h.resolveField(ctx, props, "clubLogo", h.cfg.DefaultLogo)
	}
	return nil
}

// resolveField resolves one reference field in place. Fields absent from
// the props are left alone unless a default is configured for them.
func (h *Handlers) resolveField(ctx context.Context, m map[string]any, field, fallback string) error {
	raw, _ := m[field].(string)
	if raw == "" && fallback == "" {
		return nil
	}
	url, err := h.resolver.Resolve(ctx, raw, assets.Options{
		Signed:  h.cfg.AssetBucket != "",
		Default: fallback,
	})
	if err != nil {
		return err
	}
	m[field] = url
	return nil
}
