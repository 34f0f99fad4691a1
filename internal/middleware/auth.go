package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"airwave/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// This middleware does NOT enforce authentication — it just loads the
// session if one exists.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log but don't block — treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isAPIRequest reports whether the request targets the JSON API, which
// answers with the {"error": ...} envelope instead of a redirect or a
// plain-text body.
func isAPIRequest(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

func forbiddenJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
}

// RequireAuth redirects unauthenticated users to the editor login page;
// API requests get a JSON 403 instead. Must be applied after LoadSession
// in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil {
			if isAPIRequest(r) {
				forbiddenJSON(w)
				return
			}
			http.Redirect(w, r, "/editor/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA redirects sessions that still owe a TOTP code to the
// verification page; API requests get a JSON 403. Accounts without 2FA
// enabled get TwoFADone=true at login, so they pass straight through.
// Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && !sess.TwoFADone {
			if isAPIRequest(r) {
				forbiddenJSON(w)
				return
			}
			http.Redirect(w, r, "/editor/2fa", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser returns 403 if the authenticated user is not a
// superuser: a JSON envelope on API paths, plain text elsewhere.
// Moderation and curation endpoints sit behind this. Must be applied
// after RequireAuth.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || !sess.Superuser {
			if isAPIRequest(r) {
				forbiddenJSON(w)
				return
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
