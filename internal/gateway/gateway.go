// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gateway wraps the post and category stores' mutating operations
// behind a shared-secret check. It exists for automated and external
// callers; the human admin dashboard uses its own session gate and calls
// the stores directly, never holding the shared secret.
package gateway

import (
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"

	"emberpress/internal/models"
	"emberpress/internal/store"
)

// ErrUnauthorized is returned when the supplied credential does not match
// the configured shared secret. A missing secret configuration yields the
// same error: misconfiguration is deliberately indistinguishable from a
// wrong credential.
var ErrUnauthorized = errors.New("unauthorized")

// Gateway authorizes privileged mutations and delegates them to the
// underlying stores. Construct it once at startup with the configured
// secret; there are no per-call environment reads.
type Gateway struct {
	secret     string
	posts      *store.PostStore
	categories *store.CategoryStore
}

// New creates a Gateway guarding the given stores with secret.
func New(secret string, posts *store.PostStore, categories *store.CategoryStore) *Gateway {
	return &Gateway{secret: secret, posts: posts, categories: categories}
}

// Authorize validates a caller-supplied credential against the configured
// shared secret.
func (g *Gateway) Authorize(credential string) error {
	// An empty configured secret can never authorize anything.
	if g.secret == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(credential), []byte(g.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// CreatePost authorizes and delegates to the post store. Store failures
// (ConflictError and friends) propagate unchanged.
func (g *Gateway) CreatePost(credential string, in models.PostInput) (*models.Post, error) {
	if err := g.Authorize(credential); err != nil {
		return nil, err
	}
	return g.posts.Create(in)
}

// UpdatePost authorizes and delegates to the post store.
func (g *Gateway) UpdatePost(credential string, id uuid.UUID, patch models.PostPatch) (*models.Post, error) {
	if err := g.Authorize(credential); err != nil {
		return nil, err
	}
	return g.posts.Update(id, patch)
}

// RemovePost authorizes and delegates to the post store.
func (g *Gateway) RemovePost(credential string, id uuid.UUID) error {
	if err := g.Authorize(credential); err != nil {
		return err
	}
	return g.posts.Delete(id)
}

// CreateCategory authorizes and delegates to the category store.
func (g *Gateway) CreateCategory(credential string, in models.CategoryInput) (*models.Category, error) {
	if err := g.Authorize(credential); err != nil {
		return nil, err
	}
	return g.categories.Create(in)
}

// UpdateCategory authorizes and delegates to the category store.
func (g *Gateway) UpdateCategory(credential string, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	if err := g.Authorize(credential); err != nil {
		return nil, err
	}
	return g.categories.Update(id, patch)
}

// RemoveCategory authorizes and delegates to the category store.
func (g *Gateway) RemoveCategory(credential string, id uuid.UUID) error {
	if err := g.Authorize(credential); err != nil {
		return err
	}
	return g.categories.Delete(id)
}
