package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// ImageStore is satisfied by upload.Store.
type ImageStore interface {
	PutImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type UploadHandler struct {
	Store ImageStore
}

const maxUploadBytes = 10 << 20

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "uploads not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "only image uploads are accepted", http.StatusBadRequest)
		return
	}

	url, err := h.Store.PutImage(r.Context(), header.Filename, contentType, file)
	if err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"url": url})
}
