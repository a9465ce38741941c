// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"emberpress/internal/render"
	"emberpress/internal/session"
)

// newAuthEnv builds an Auth handler without touching any backend: login
// only needs the renderer and the session signer.
func newAuthEnv(t *testing.T, password, totpSecret string) (*Auth, *session.Store) {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	sessions := session.NewStore("auth-test-secret", false)
	return NewAuth(renderer, sessions, password, totpSecret, testSiteURL), sessions
}

func postLoginForm(auth *Auth, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	auth.LoginSubmit(rec, req)
	return rec
}

func TestLoginPage_Returns200(t *testing.T) {
	auth, _ := newAuthEnv(t, testPassword, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rec := httptest.NewRecorder()
	auth.LoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("LoginPage: got status %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="password"`) {
		t.Error("login page should contain the password field")
	}
	if strings.Contains(body, `name="totp_code"`) {
		t.Error("login page should not ask for a TOTP code when 2FA is disabled")
	}
}

func TestLoginPage_WithTOTP_ShowsCodeField(t *testing.T) {
	auth, _ := newAuthEnv(t, testPassword, "JBSWY3DPEHPK3PXP")

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rec := httptest.NewRecorder()
	auth.LoginPage(rec, req)

	if !strings.Contains(rec.Body.String(), `name="totp_code"`) {
		t.Error("login page should ask for a TOTP code when 2FA is enabled")
	}
}

func TestLoginPage_AlreadyLoggedIn_Redirects(t *testing.T) {
	auth, sessions := newAuthEnv(t, testPassword, "")

	token, err := sessions.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req = req.WithContext(ctxWithSession(req.Context(), claims))
	rec := httptest.NewRecorder()
	auth.LoginPage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("LoginPage logged in: got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("LoginPage logged in: redirect to %q, want /admin", loc)
	}
}

func TestLoginSubmit_CorrectPassword_SetsSessionCookie(t *testing.T) {
	auth, sessions := newAuthEnv(t, testPassword, "")

	form := url.Values{}
	form.Set("password", testPassword)
	rec := postLoginForm(auth, form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("LoginSubmit: got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("LoginSubmit: redirect to %q, want /admin", loc)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("login should set the session cookie")
	}
	if _, err := sessions.Verify(sessionCookie.Value); err != nil {
		t.Errorf("session cookie should verify: %v", err)
	}
}

func TestLoginSubmit_WrongPassword_Returns401(t *testing.T) {
	auth, _ := newAuthEnv(t, testPassword, "")

	form := url.Values{}
	form.Set("password", "not-the-password")
	rec := postLoginForm(auth, form)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("LoginSubmit wrong: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set cookies")
	}
}

func TestLoginSubmit_BcryptHashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth, _ := newAuthEnv(t, string(hash), "")

	form := url.Values{}
	form.Set("password", "hunter2")
	if rec := postLoginForm(auth, form); rec.Code != http.StatusSeeOther {
		t.Errorf("bcrypt login: got status %d, want %d", rec.Code, http.StatusSeeOther)
	}

	form.Set("password", "hunter3")
	if rec := postLoginForm(auth, form); rec.Code != http.StatusUnauthorized {
		t.Errorf("bcrypt wrong password: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginSubmit_TOTP(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	auth, _ := newAuthEnv(t, testPassword, secret)

	// Right password, wrong code.
	form := url.Values{}
	form.Set("password", testPassword)
	form.Set("totp_code", "000000")
	if rec := postLoginForm(auth, form); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong TOTP code: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Right password, current code.
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	form.Set("totp_code", code)
	if rec := postLoginForm(auth, form); rec.Code != http.StatusSeeOther {
		t.Errorf("valid TOTP code: got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	auth, _ := newAuthEnv(t, testPassword, "")

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rec := httptest.NewRecorder()
	auth.Logout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Logout: got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("Logout: redirect to %q, want /admin/login", loc)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should expire the session cookie")
	}
}

func TestTOTPQRCode(t *testing.T) {
	// Disabled: 404.
	auth, _ := newAuthEnv(t, testPassword, "")
	req := httptest.NewRequest(http.MethodGet, "/admin/settings/totp-qr", nil)
	rec := httptest.NewRecorder()
	auth.TOTPQRCode(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("TOTPQRCode disabled: got status %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Enabled: a PNG comes back.
	auth, _ = newAuthEnv(t, testPassword, "JBSWY3DPEHPK3PXP")
	rec = httptest.NewRecorder()
	auth.TOTPQRCode(rec, httptest.NewRequest(http.MethodGet, "/admin/settings/totp-qr", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("TOTPQRCode enabled: got status %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("TOTPQRCode: Content-Type = %q, want image/png", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Error("TOTPQRCode: body should be a PNG")
	}
}
