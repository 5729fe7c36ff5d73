package handlers

import (
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"matchday/internal/httpkit"
	"matchday/internal/pkg/errors"
	"matchday/internal/pkg/middleware"
	"matchday/internal/ports"
)

// maxUploadBytes bounds asset uploads; clips dominate at a few hundred MB.
const maxUploadBytes = 512 << 20

var assetCategories = map[string]bool{
	"players": true,
	"clips":   true,
	"logo":    true,
}

type uploadResponse struct {
	ObjectKey string `json:"objectKey"`
	Size      int64  `json:"size"`
	Provider  string `json:"provider"`
}

// UploadAsset stores a library asset under its category prefix.
//
// POST /assets/{category}  (multipart, field "file")
func (h *Handlers) UploadAsset(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !assetCategories[category] {
		middleware.HandleError(w, r, h.log,
			errors.Validationf("unknown asset category: %q", category))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.HandleError(w, r, h.log,
			errors.Validation("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	name := path.Base(header.Filename)
	if name == "" || name == "." || name == "/" {
		middleware.HandleError(w, r, h.log, errors.Validation("upload has no usable filename"))
		return
	}

	out, err := h.storage.PutObject(r.Context(), ports.PutObjectInput{
		ObjectKey:   category + "/" + name,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
		Size:        header.Size,
	})
	if err != nil {
		middleware.HandleError(w, r, h.log, errors.Wrap(err, "UploadAsset", "asset upload failed"))
		return
	}

	h.log.FromContext(r.Context()).Info("asset uploaded",
		"category", category,
		"object_key", out.ObjectKey,
		"size", out.Size,
	)
	httpkit.WriteJSON(w, http.StatusCreated, uploadResponse{
		ObjectKey: out.ObjectKey,
		Size:      out.Size,
		Provider:  h.storage.Provider(),
	})
}

type signedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AssetSignedURL mints a time-limited URL for one stored asset.
//
// GET /assets/signed-url?key=...&expiresIn=300
func (h *Handlers) AssetSignedURL(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		middleware.HandleError(w, r, h.log, errors.ValidationField("key", "object key is required"))
		return
	}

	expiresIn := 5 * time.Minute
	if raw := r.URL.Query().Get("expiresIn"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			middleware.HandleError(w, r, h.log,
				errors.ValidationField("expiresIn", "must be a positive number of seconds"))
			return
		}
		expiresIn = time.Duration(secs) * time.Second
	}

	out, err := h.storage.GetSignedURL(r.Context(), key, expiresIn)
	if err != nil {
		if errors.Is(err, ports.ErrSignedURLUnsupported) {
			middleware.HandleError(w, r, h.log,
				errors.Newf(errors.CodeBadRequest, "provider %s does not support signed urls", h.storage.Provider()))
			return
		}
		middleware.HandleError(w, r, h.log, errors.Wrap(err, "AssetSignedURL", "signed url generation failed"))
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, signedURLResponse{URL: out.URL, ExpiresAt: out.ExpiresAt})
}

// StreamAsset proxies an asset's bytes from the storage backend.
//
// GET /assets/stream/*
func (h *Handlers) StreamAsset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		middleware.HandleError(w, r, h.log, errors.ValidationField("key", "object key is required"))
		return
	}

	rc, contentType, size, err := h.storage.GetObject(r.Context(), key)
	if err != nil {
		middleware.HandleError(w, r, h.log, errors.WrapWithCode(err, errors.CodeNotFound, "StreamAsset", "asset not found"))
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.FromContext(r.Context()).Warn("asset stream interrupted", "object_key", key, "error", err)
	}
}

// DeleteAsset removes a stored asset.
//
// DELETE /assets/*
func (h *Handlers) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		middleware.HandleError(w, r, h.log, errors.ValidationField("key", "object key is required"))
		return
	}

	if err := h.storage.DeleteObject(r.Context(), key); err != nil {
		middleware.HandleError(w, r, h.log, errors.Wrap(err, "DeleteAsset", "asset deletion failed"))
		return
	}

	h.log.FromContext(r.Context()).Info("asset deleted", "object_key", key)
	w.WriteHeader(http.StatusNoContent)
}
