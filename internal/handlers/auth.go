// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"starbiz/internal/middleware"
	"starbiz/internal/session"
)

const totpIssuer = "Starbiz"

// Sessions creates and destroys admin sessions. *session.Store satisfies it.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Credentials is the single admin credential pair.
type Credentials struct {
	Email        string
	PasswordHash string
	// TOTPSecret enables the second factor when set.
	TOTPSecret string
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	creds    Credentials
	sessions Sessions
}

// NewAuth creates a new Auth handler group.
func NewAuth(creds Credentials, sessions Sessions) *Auth {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	return &Auth{creds: creds, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type meResponse struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Login checks the credential pair (and the TOTP code when a secret is
// configured) and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !a.check(req) {
		slog.Warn("login rejected", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "invalid email, password, or code")
		return
	}

	data := &session.Data{Email: a.creds.Email, CreatedAt: time.Now().UTC()}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("admin logged in", "email", data.Email)
	writeJSON(w, http.StatusOK, meResponse(*data))
}

func (a *Auth) check(req loginRequest) bool {
	emailOK := strings.ToLower(strings.TrimSpace(req.Email)) == a.creds.Email
	// The hash is always compared so timing does not reveal the email.
	passOK := bcrypt.CompareHashAndPassword([]byte(a.creds.PasswordHash), []byte(req.Password)) == nil
	if !emailOK || !passOK {
		return false
	}
	if a.creds.TOTPSecret == "" {
		return true
	}
	return totp.Validate(strings.TrimSpace(req.Code), a.creds.TOTPSecret)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the logged-in admin.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, meResponse(*sess))
}

// ProvisioningURI returns the otpauth URI an authenticator app scans.
func (a *Auth) ProvisioningURI() string {
	q := url.Values{}
	q.Set("secret", a.creds.TOTPSecret)
	q.Set("issuer", totpIssuer)
	return "otpauth://totp/" + url.PathEscape(totpIssuer+":"+a.creds.Email) + "?" + q.Encode()
}

// TOTPQR serves the provisioning URI as a PNG QR code. It answers 404 when
// no second factor is configured.
func (a *Auth) TOTPQR(w http.ResponseWriter, r *http.Request) {
	if a.creds.TOTPSecret == "" {
		writeError(w, http.StatusNotFound, "two-factor authentication is not configured")
		return
	}

	png, err := qrcode.Encode(a.ProvisioningURI(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
