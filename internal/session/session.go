// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides stateless admin session management. A session is
// an HS256-signed token carried in a secure cookie; there is no server-side
// session state, so a restart never logs the admin out.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "admin_session"

	// DefaultTTL is how long a session token stays valid after login.
	DefaultTTL = 7 * 24 * time.Hour

	// adminRole is the only role issued; tokens carrying anything else are
	// rejected on verification.
	adminRole = "admin"
)

// Claims is the signed session payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Store signs and verifies session tokens with a shared secret.
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store signing with secret. secure controls the
// Secure flag on the cookie and should be true whenever the site is served
// over TLS.
func NewStore(secret string, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Issue creates a signed admin session token.
func (s *Store) Issue() (string, error) {
	now := time.Now()
	claims := Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. It returns an error for
// expired, tampered, or wrongly-signed tokens, and for tokens that do not
// carry the admin role.
func (s *Store) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session verify: %w", err)
	}
	if !token.Valid || claims.Role != adminRole {
		return nil, fmt.Errorf("session verify: invalid token")
	}
	return claims, nil
}

// Create issues a session token and sets the session cookie on the response.
func (s *Store) Create(w http.ResponseWriter) error {
	signed, err := s.Issue()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return nil
}

// Get verifies the session cookie on the request. Returns nil when no valid
// session exists; a missing or bad cookie is not an error.
func (s *Store) Get(r *http.Request) *Claims {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	claims, err := s.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// Destroy clears the session cookie. The token itself stays valid until it
// expires; logout only removes it from the browser.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
