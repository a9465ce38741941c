// Package web provides embedded static assets (CSS) for the site.
// In development, templates load TailwindCSS from CDN; in production, the
// compiled files are embedded here and served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. In Docker builds, this
// includes the compiled TailwindCSS output; in local development it holds
// only the fallback stylesheet.
//
//go:embed all:static
var StaticFS embed.FS
