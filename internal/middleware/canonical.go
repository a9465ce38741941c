// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"emberpress/internal/config"
)

// CanonicalHost permanently redirects requests arriving on a retired domain
// to the same path on the canonical origin. Search engines consolidate
// ranking onto the canonical domain only when the redirect is a 301.
func CanonicalHost(siteURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.IsLegacyHost(r.Host) {
				target := siteURL + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
