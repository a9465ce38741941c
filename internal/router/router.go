// Package router sets up all HTTP routes and middleware chains: the
// public site, the session-gated admin dashboard, and the token-gated
// JSON API.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"emberpress/internal/handlers"
	"emberpress/internal/middleware"
	"emberpress/internal/session"
	"emberpress/web"
)

// loginRateLimit bounds login attempts per client IP. Generous for a
// human, hopeless for a brute-forcer.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Config carries the cross-cutting values the router needs.
type Config struct {
	SiteURL string
	Secure  bool // set cookie Secure flags; true behind TLS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	cfg Config,
	sessions *session.Store,
	admin *handlers.Admin,
	auth *handlers.Auth,
	public *handlers.Public,
	api *handlers.API,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CanonicalHost(cfg.SiteURL))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing from binary: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Admin dashboard: CSRF everywhere, session loaded everywhere, and
	// everything except the login flow behind the auth gate.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(cfg.Secure))
		r.Use(middleware.LoadSession(sessions))

		loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Get("/login", auth.LoginPage)
			r.Post("/login", auth.LoginSubmit)
		})
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", admin.Dashboard)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}/edit", admin.PostEdit)
				r.Post("/{id}", admin.PostUpdate)
				r.Post("/{id}/delete", admin.PostDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Get("/new", admin.CategoryNew)
				r.Post("/", admin.CategoryCreate)
				r.Get("/{id}/edit", admin.CategoryEdit)
				r.Post("/{id}", admin.CategoryUpdate)
				r.Post("/{id}/delete", admin.CategoryDelete)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", admin.MediaList)
				r.Post("/upload", admin.MediaUpload)
				r.Post("/{id}/delete", admin.MediaDelete)
			})

			r.Get("/settings", admin.Settings)
			r.Get("/settings/totp-qr", auth.TOTPQRCode)
		})
	})

	// JSON API: bearer token auth inside the handlers, so no CSRF and no
	// session here.
	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", api.CreatePost)
			r.Patch("/{id}", api.UpdatePost)
			r.Delete("/{id}", api.DeletePost)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", api.CreateCategory)
			r.Patch("/{id}", api.UpdateCategory)
			r.Delete("/{id}", api.DeleteCategory)
		})
	})

	// Public site.
	r.Get("/", public.Home)
	r.Get("/blog", public.BlogIndex)
	r.Get("/blog/{slug}", public.BlogPost)
	r.Get("/blog/category/{slug}", public.BlogCategory)
	r.Get("/sitemap.xml", public.Sitemap)
	r.Get("/robots.txt", public.RobotsTxt)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
