// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emberpress/internal/models"
	"emberpress/internal/render"
)

const (
	// maxUploadSize is the maximum allowed file upload size (10 MB).
	maxUploadSize = 10 << 20

	// mediaListLimit bounds the media library page.
	mediaListLimit = 200
)

// allowedMediaTypes defines MIME types accepted for upload. Featured
// images are the only use case, so only browser-renderable image formats.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// storageConfigured reports whether uploads can work at all.
func (a *Admin) storageConfigured() bool {
	return a.media != nil && a.storageClient != nil
}

// MediaList renders the media library.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"storageEnabled": a.storageConfigured(),
	}

	if a.storageConfigured() {
		items, err := a.media.List(mediaListLimit, 0)
		if err != nil {
			slog.Error("list media failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		urls := make(map[uuid.UUID]string, len(items))
		for i := range items {
			urls[items[i].ID] = a.storageClient.FileURL(items[i].S3Key)
		}
		data["items"] = items
		data["urls"] = urls
	}

	a.renderer.Page(w, r, "media", &render.PageData{
		Title:   "Media",
		Section: "media",
		Data:    data,
	})
}

// MediaUpload accepts a multipart image upload, stores the file in the
// bucket under a date-partitioned key, and records it in the database.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if !a.storageConfigured() {
		http.Error(w, "Storage is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large (max 10 MB)", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		http.Error(w, "Unsupported file type", http.StatusUnsupportedMediaType)
		return
	}

	// Never trust the client-supplied name for the object key; only its
	// extension survives, lowercased.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	id := uuid.New()
	filename := id.String() + ext
	now := time.Now().UTC()
	key := fmt.Sprintf("media/%04d/%02d/%s", now.Year(), now.Month(), filename)

	if err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("media upload failed", "error", err, "key", key)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	created, err := a.media.Create(&models.Media{
		Filename:     filename,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    header.Size,
		S3Key:        key,
	})
	if err != nil {
		slog.Error("media record create failed", "error", err, "key", key)
		// The object is already in the bucket; best effort to not leak it.
		if delErr := a.storageClient.Delete(r.Context(), key); delErr != nil {
			slog.Error("orphaned object cleanup failed", "error", delErr, "key", key)
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("media uploaded", "id", created.ID, "key", key, "size", header.Size)
	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete removes a media record and its object from the bucket.
// Posts that embed the file's URL keep the now-broken link; cleaning those
// up is the editor's call.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if !a.storageConfigured() {
		http.Error(w, "Storage is not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	deleted, err := a.media.Delete(id)
	if err != nil {
		slog.Error("media delete failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if deleted != nil {
		if err := a.storageClient.Delete(r.Context(), deleted.S3Key); err != nil {
			slog.Error("media object delete failed", "error", err, "key", deleted.S3Key)
		}
		slog.Info("media deleted", "id", id, "key", deleted.S3Key)
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}
