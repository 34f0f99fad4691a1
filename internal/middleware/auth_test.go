package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"airwave/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(superuser, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Username:    "testeditor",
		DisplayName: "Test Editor",
		Superuser:   superuser,
		TwoFADone:   twoFADone,
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses. This allows tests to simulate
// the state after LoadSession has run without needing a real Valkey store.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(true, true)
		got := SessionFromCtx(ctxWithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Username != sess.Username {
			t.Errorf("Username: got %q, want %q", got.Username, sess.Username)
		}
		if got.Superuser != sess.Superuser {
			t.Errorf("Superuser: got %v, want %v", got.Superuser, sess.Superuser)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("redirects to login when no session", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/editor/dashboard", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should NOT have been called")
		}
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusSeeOther)
		}
		if loc := rr.Header().Get("Location"); loc != "/editor/login" {
			t.Errorf("redirect location: got %q, want %q", loc, "/editor/login")
		}
	})

	t.Run("passes through when session exists", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/editor/dashboard", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession(false, true)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

// decodeErrorBody asserts the response carries the JSON error envelope.
func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

// API routes answer with a JSON 403 instead of the browser redirect or
// plain-text forbidden page.
func TestAuthMiddlewareJSONForbiddenOnAPIRoutes(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		session    *session.Data
	}{
		{
			name:       "RequireAuth without session",
			middleware: RequireAuth,
			session:    nil,
		},
		{
			name:       "Require2FA with pending code",
			middleware: Require2FA,
			session:    newTestSession(true, false),
		},
		{
			name:       "RequireSuperuser as plain editor",
			middleware: RequireSuperuser,
			session:    newTestSession(false, true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := tt.middleware(inner)

			req := httptest.NewRequest(http.MethodPost, "/api/submissions/1/approve", nil)
			if tt.session != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called {
				t.Error("next handler should NOT have been called")
			}
			if rr.Code != http.StatusForbidden {
				t.Errorf("status: got %d, want 403", rr.Code)
			}
			if msg := decodeErrorBody(t, rr); msg == "" {
				t.Error("error message empty in JSON body")
			}
			if loc := rr.Header().Get("Location"); loc != "" {
				t.Errorf("unexpected redirect to %q", loc)
			}
		})
	}
}

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name           string
		session        *session.Data
		wantCode       int
		wantLocation   string
		wantNextCalled bool
	}{
		{
			name:           "redirects to verification when TwoFADone is false",
			session:        newTestSession(true, false),
			wantCode:       http.StatusSeeOther,
			wantLocation:   "/editor/2fa",
			wantNextCalled: false,
		},
		{
			name:           "passes through when TwoFADone is true",
			session:        newTestSession(true, true),
			wantCode:       http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "passes through when session is nil (RequireAuth catches this first)",
			session:        nil,
			wantCode:       http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := Require2FA(inner)

			req := httptest.NewRequest(http.MethodGet, "/editor/dashboard", nil)
			if tt.session != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("redirect location: got %q, want %q", loc, tt.wantLocation)
				}
			}
		})
	}
}

func TestRequireSuperuser(t *testing.T) {
	tests := []struct {
		name           string
		session        *session.Data
		wantCode       int
		wantNextCalled bool
	}{
		{
			name:           "returns 403 when session is nil",
			session:        nil,
			wantCode:       http.StatusForbidden,
			wantNextCalled: false,
		},
		{
			name:           "returns 403 for a non-superuser editor",
			session:        newTestSession(false, true),
			wantCode:       http.StatusForbidden,
			wantNextCalled: false,
		},
		{
			name:           "passes through for a superuser",
			session:        newTestSession(true, true),
			wantCode:       http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := RequireSuperuser(inner)

			req := httptest.NewRequest(http.MethodPost, "/api/submissions/1/approve", nil)
			if tt.session != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusForbidden && rr.Body.Len() == 0 {
				t.Error("expected non-empty body for 403 response")
			}
		})
	}
}
