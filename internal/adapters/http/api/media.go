package api

import (
	"io"
	"net/http"
	"strings"
)

// MediaHandler handles blob upload, download and deletion.
type MediaHandler struct {
	deps     MediaDependencies
	maxBytes int64
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(deps MediaDependencies, maxBytes int64) *MediaHandler {
	return &MediaHandler{deps: deps, maxBytes: maxBytes}
}

type mediaResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Bytes int    `json:"bytes"`
}

// HandleUpload handles POST /media?kind= requests. The request body is the
// raw blob.
func (h *MediaHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_media"
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind")))
	if kind == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		fail(w, op, err)
		return
	}
	id, err := h.deps.SaveMedia(r.Context(), blob, kind)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, mediaResponse{ID: id, Kind: kind, Bytes: len(blob)})
}

// HandleGet handles GET /media/{id} requests.
func (h *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	blob, err := h.deps.LoadMedia(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, "api.get_media", err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(blob))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// HandleDelete handles DELETE /media/{id} requests.
func (h *MediaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteMedia(r.Context(), r.PathValue("id")); err != nil {
		fail(w, "api.delete_media", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
