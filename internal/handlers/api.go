// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emberpress/internal/cache"
	"emberpress/internal/gateway"
	"emberpress/internal/models"
	"emberpress/internal/slug"
	"emberpress/internal/store"
)

// API exposes the content mutations as a token-guarded JSON surface for
// automated callers (publishing pipelines, one-off scripts). Every request
// carries the shared secret as a bearer token; the gateway does the
// comparison, so a handler never sees the configured value.
type API struct {
	gateway   *gateway.Gateway
	pageCache *cache.PageCache
}

// NewAPI creates a new API handler group. pageCache may be nil.
func NewAPI(gw *gateway.Gateway, pageCache *cache.PageCache) *API {
	return &API{gateway: gw, pageCache: pageCache}
}

// bearerToken extracts the credential from the Authorization header.
// Returns "" when the header is absent or not a bearer scheme, which the
// gateway will reject.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return auth[len(prefix):]
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// apiError is the uniform error envelope.
type apiError struct {
	Error string `json:"error"`
}

// writeAPIError maps a gateway/store failure to a status code and JSON body.
func writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "unauthorized"})
	case store.IsConflict(err):
		writeJSON(w, http.StatusConflict, apiError{Error: err.Error()})
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
	default:
		slog.Error("api request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}

// invalidatePages mirrors the dashboard's cache behavior for API mutations.
func (h *API) invalidatePages(r *http.Request) {
	if h.pageCache != nil {
		h.pageCache.InvalidateAll(r.Context())
	}
}

// urlID parses the {id} route parameter.
func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// CreatePost handles POST /api/admin/posts.
func (h *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json: " + err.Error()})
		return
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	if in.Status != models.PostStatusPublished {
		in.Status = models.PostStatusDraft
	}
	if msg := validatePost(in.Title, in.Slug, in.Content); msg != "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msg})
		return
	}

	created, err := h.gateway.CreatePost(bearerToken(r), in)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api post created", "id", created.ID, "slug", created.Slug)
	h.invalidatePages(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePost handles PATCH /api/admin/posts/{id}. The body is a partial
// document: absent keys leave the stored values untouched, explicit nulls
// clear optional fields.
func (h *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var patch models.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json: " + err.Error()})
		return
	}
	if patch.Title.Valid && strings.TrimSpace(patch.Title.Value) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Title is required."})
		return
	}
	if patch.Slug.Valid && strings.TrimSpace(patch.Slug.Value) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Slug cannot be cleared."})
		return
	}
	if patch.Status.Valid &&
		patch.Status.Value != models.PostStatusDraft &&
		patch.Status.Value != models.PostStatusPublished {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Status must be draft or published."})
		return
	}

	updated, err := h.gateway.UpdatePost(bearerToken(r), id, patch)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api post updated", "id", updated.ID, "slug", updated.Slug)
	h.invalidatePages(r)
	writeJSON(w, http.StatusOK, updated)
}

// DeletePost handles DELETE /api/admin/posts/{id}.
func (h *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.gateway.RemovePost(bearerToken(r), id); err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api post deleted", "id", id)
	h.invalidatePages(r)
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /api/admin/categories.
func (h *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json: " + err.Error()})
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}
	if msg := validateCategory(in.Name, in.Slug); msg != "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msg})
		return
	}

	created, err := h.gateway.CreateCategory(bearerToken(r), in)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api category created", "id", created.ID, "slug", created.Slug)
	h.invalidatePages(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PATCH /api/admin/categories/{id}.
func (h *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var patch models.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json: " + err.Error()})
		return
	}
	if patch.Name.Valid && strings.TrimSpace(patch.Name.Value) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Name is required."})
		return
	}
	if patch.Slug.Valid && strings.TrimSpace(patch.Slug.Value) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Slug cannot be cleared."})
		return
	}

	updated, err := h.gateway.UpdateCategory(bearerToken(r), id, patch)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api category updated", "id", updated.ID, "slug", updated.Slug)
	h.invalidatePages(r)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}.
func (h *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.gateway.RemoveCategory(bearerToken(r), id); err != nil {
		writeAPIError(w, err)
		return
	}

	slog.Info("api category deleted", "id", id)
	h.invalidatePages(r)
	w.WriteHeader(http.StatusNoContent)
}
