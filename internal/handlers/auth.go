package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"emberpress/internal/middleware"
	"emberpress/internal/render"
	"emberpress/internal/session"
)

// Auth groups all authentication-related HTTP handlers. The site has a
// single admin identity: one password configured in the environment, plus
// an optional TOTP second factor.
type Auth struct {
	renderer      *render.Renderer
	sessions      *session.Store
	adminPassword string
	totpSecret    string
	siteURL       string
}

// NewAuth creates a new Auth handler group. totpSecret may be empty, which
// disables the second factor.
func NewAuth(renderer *render.Renderer, sessions *session.Store, adminPassword, totpSecret, siteURL string) *Auth {
	return &Auth{
		renderer:      renderer,
		sessions:      sessions,
		adminPassword: adminPassword,
		totpSecret:    totpSecret,
		siteURL:       siteURL,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already logged in: straight to the dashboard.
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Log in",
		Data:  map[string]any{"totpEnabled": a.totpSecret != ""},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")

	if !a.checkPassword(password) {
		a.loginFailed(w, r, "Wrong password.")
		return
	}

	if a.totpSecret != "" {
		code := strings.TrimSpace(r.FormValue("totp_code"))
		if !totp.Validate(code, a.totpSecret) {
			a.loginFailed(w, r, "Invalid authenticator code.")
			return
		}
	}

	if err := a.sessions.Create(w); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("admin login")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// loginFailed re-renders the login form with an error flash.
func (a *Auth) loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	slog.Warn("admin login rejected", "remote", r.RemoteAddr)
	w.WriteHeader(http.StatusUnauthorized)
	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Log in",
		Flashes: []render.Flash{{Type: "error", Message: msg}},
		Data:    map[string]any{"totpEnabled": a.totpSecret != ""},
	})
}

// checkPassword compares the submitted password against the configured
// admin password. A bcrypt hash in the config is detected by its prefix;
// anything else is compared in constant time as plaintext.
func (a *Auth) checkPassword(password string) bool {
	if strings.HasPrefix(a.adminPassword, "$2a$") ||
		strings.HasPrefix(a.adminPassword, "$2b$") ||
		strings.HasPrefix(a.adminPassword, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(a.adminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) == 1
}

// Logout clears the session cookie and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// TOTPQRCode serves a provisioning QR code for the configured TOTP secret
// so the admin can enroll an authenticator app from the settings page.
func (a *Auth) TOTPQRCode(w http.ResponseWriter, r *http.Request) {
	if a.totpSecret == "" {
		http.NotFound(w, r)
		return
	}

	host := strings.TrimPrefix(strings.TrimPrefix(a.siteURL, "https://"), "http://")
	uri := "otpauth://totp/" + host + ":admin?secret=" + a.totpSecret + "&issuer=" + host

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
