// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint. Routes are exercised without backends:
// only paths that never reach a store are requested.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"emberpress/internal/gateway"
	"emberpress/internal/handlers"
	"emberpress/internal/render"
	"emberpress/internal/session"
)

const testSiteURL = "https://ycjgt.com"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore("router-test-secret", false)
	admin := handlers.NewAdmin(renderer, nil, nil, nil, nil, nil, testSiteURL, "test", false)
	auth := handlers.NewAuth(renderer, sessions, "password", "", testSiteURL)
	public := handlers.NewPublic(renderer, nil, nil, nil, testSiteURL)
	api := handlers.NewAPI(gateway.New("token", nil, nil), nil)

	return New(Config{SiteURL: testSiteURL}, sessions, admin, auth, public, api)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", w.Code)
	}
}

func TestRouterAdminRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/admin", "/admin/posts", "/admin/categories", "/admin/media", "/admin/settings"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		if w.Code != http.StatusSeeOther {
			t.Errorf("GET %s without session: got %d, want 303", path, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != "/admin/login" {
			t.Errorf("GET %s: redirect to %q, want /admin/login", path, loc)
		}
	}
}

func TestRouterLoginReachableWithoutSession(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/login", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /admin/login: got %d, want 200", w.Code)
	}
}

func TestRouterAPIRejectsMissingToken(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/admin/posts", strings.NewReader(`{"title":"x","content":"y"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("POST /api/admin/posts without token: got %d, want 401", w.Code)
	}
}

func TestRouterLegacyHostRedirects(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("GET", "/blog?cursor=abc", nil)
	req.Host = "www.youcanjustgeneratethings.com"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("legacy host: got %d, want 301", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != testSiteURL+"/blog?cursor=abc" {
		t.Errorf("legacy host: redirect to %q", loc)
	}
}

func TestRouterStaticAssets(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/static/app.css", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /static/app.css: got %d, want 200", w.Code)
	}
}

func TestRouterRobotsTxt(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/robots.txt", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /robots.txt: got %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Disallow: /admin") {
		t.Error("robots.txt should disallow the admin area")
	}
}
