// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for both the public site
// and the admin interface. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header. Public pages render to a
// byte slice so handlers can put the result in the page cache.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"emberpress/internal/middleware"
	"emberpress/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string           // Page title for <title> tag
	Section   string           // Active sidebar section (e.g., "dashboard", "posts")
	Session   *session.Claims  // Current admin session (nil if unauthenticated)
	CSRFToken string           // CSRF token for forms and HTMX headers
	Data      map[string]any   // Page-specific data
	Flashes   []Flash          // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// PublicData holds all data passed to public templates.
type PublicData struct {
	Title           string // <title> and og:title
	MetaDescription string // meta description and og:description
	Canonical       string // absolute canonical URL for this page
	SiteURL         string // canonical site origin
	OGImage         string // absolute og:image URL, optional
	OGType          string // "website" or "article"
	Data            map[string]any
}

// Renderer handles template parsing and execution.
type Renderer struct {
	admin   map[string]*template.Template
	public  map[string]*template.Template
	funcMap template.FuncMap
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with its base layout.
// When devMode is true, templates use CDN-hosted assets (TailwindCSS,
// HTMX); when false, they reference compiled local static files.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-gray-900 text-white"
				}
				return "text-gray-300 hover:bg-gray-700 hover:text-white"
			},
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			// isDev returns true when the app runs in development mode.
			// Used by templates to conditionally load CDN vs local assets.
			"isDev": func() bool {
				return devMode
			},
			// uuidEq compares a *uuid.UUID pointer with a uuid.UUID value.
			"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
				return ptr != nil && *ptr == val
			},
			// fmtDate renders a timestamp for display on public pages.
			"fmtDate": func(t time.Time) string {
				return t.Format("January 2, 2006")
			},
			// fmtDatePtr handles the nullable publishedAt field.
			"fmtDatePtr": func(t *time.Time) string {
				if t == nil {
					return ""
				}
				return t.Format("January 2, 2006")
			},
			// iso8601Ptr renders a nullable timestamp for <time datetime>.
			"iso8601Ptr": func(t *time.Time) string {
				if t == nil {
					return ""
				}
				return t.Format(time.RFC3339)
			},
			// safeHTML marks pre-rendered Markdown output as trusted HTML.
			// Only ever used for admin-authored post content.
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s)
			},
		},
	}

	if err := r.parseSet(r.admin, "templates/admin", standaloneTemplates); err != nil {
		return nil, err
	}
	if err := r.parseSet(r.public, "templates/public", nil); err != nil {
		return nil, err
	}

	return r, nil
}

// parseSet parses every page template under dir, pairing each with the
// set's base.html unless the page is standalone.
func (rn *Renderer) parseSet(dst map[string]*template.Template, dir string, standalone map[string]bool) error {
	entries, err := templateFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read embedded templates %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "base.html" {
			continue
		}
		tmplName := name[:len(name)-len(filepath.Ext(name))]

		var tmpl *template.Template
		var parseErr error
		if standalone[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(rn.funcMap).ParseFS(
				templateFS, dir+"/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(rn.funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
		}
		if parseErr != nil {
			return fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		dst[tmplName] = tmpl
	}

	return nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
// For full page loads, the entire base layout is rendered.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	// Inject session from context.
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// HTMX request: render only the content fragment.
	if isHTMX(r) {
		if err := executeTemplate(w, tmpl, "content", data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	// Full page request: render the complete layout.
	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// PublicHTML renders a public page template to a byte slice so the caller
// can both serve and cache the result.
func (rn *Renderer) PublicHTML(name string, data *PublicData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.OGType == "" {
		data.OGType = "website"
	}

	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, "base.html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
