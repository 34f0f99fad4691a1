package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"airwave/internal/middleware"
	"airwave/internal/render"
	"airwave/internal/session"
	"airwave/internal/store"
)

// Auth groups the editor authentication handlers. 2FA is opt-in: accounts
// without TOTP enabled sign in with just a password, accounts with it
// enabled owe a code before the session is fully authenticated.
type Auth struct {
	renderer    *render.Renderer
	sessions    *session.Store
	users       *store.UserStore
	stationName string
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, stationName string) *Auth {
	return &Auth{
		renderer:    renderer,
		sessions:    sessions,
		users:       users,
		stationName: stationName,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/editor/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "editor/login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := a.users.FindByUsername(username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.renderer.Page(w, r, "editor/login", &render.PageData{
			Title: "Sign In",
			Data:  map[string]any{"Error": "An unexpected error occurred."},
		})
		return
	}

	if user == nil || !a.users.CheckPassword(user, password) {
		a.renderer.Page(w, r, "editor/login", &render.PageData{
			Title: "Sign In",
			Data:  map[string]any{"Error": "Invalid username or password."},
		})
		return
	}

	// Accounts with 2FA enabled still owe a code; everyone else is done.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Superuser:   user.Superuser,
		TwoFADone:   !user.Has2FA(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("editor signed in", "username", user.Username)

	if user.Has2FA() {
		http.Redirect(w, r, "/editor/2fa", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/editor/dashboard", http.StatusSeeOther)
}

// TwoFAPage renders the TOTP step. For accounts that have not enrolled
// yet it generates a secret and shows the QR code, so the same page
// serves voluntary enrollment and login-time verification.
func (a *Auth) TwoFAPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/editor/login", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{}
	if !user.TOTPEnabled {
		secret := user.TOTPSecret
		if secret == nil {
			key, err := totp.Generate(totp.GenerateOpts{
				Issuer:      a.stationName,
				AccountName: user.Username,
			})
			if err != nil {
				slog.Error("totp generate failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if err := a.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
				slog.Error("save totp secret failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			qr, err := a.enrollQR(key.URL())
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			data["QRCode"] = qr
		} else {
			qr, err := a.enrollQR(totpURL(a.stationName, user.Username, *secret))
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			data["QRCode"] = qr
		}
	}

	a.renderer.Page(w, r, "editor/2fa", &render.PageData{
		Title: "Two-Factor",
		Data:  data,
	})
}

// TwoFASubmit validates the TOTP code, enabling 2FA on first success.
func (a *Auth) TwoFASubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/editor/login", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/editor/2fa", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		data := map[string]any{"Error": "Invalid code. Please try again."}
		if !user.TOTPEnabled {
			if qr, err := a.enrollQR(totpURL(a.stationName, user.Username, *user.TOTPSecret)); err == nil {
				data["QRCode"] = qr
			}
		}
		a.renderer.Page(w, r, "editor/2fa", &render.PageData{
			Title: "Two-Factor",
			Data:  data,
		})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/editor/dashboard", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/editor/login", http.StatusSeeOther)
}

// enrollQR renders an otpauth URL as a base64-encoded PNG for the
// enrollment page.
func (a *Auth) enrollQR(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// totpURL rebuilds the otpauth URL for an already stored secret.
func totpURL(issuer, account, secret string) string {
	return "otpauth://totp/" + issuer + ":" + account + "?secret=" + secret + "&issuer=" + issuer
}
