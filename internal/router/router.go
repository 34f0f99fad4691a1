// Package router sets up the HTTP routes and middleware chains: the
// public site, the contributor intake, the editor interface, and the
// superuser JSON API.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airwave/internal/handlers"
	"airwave/internal/middleware"
	"airwave/internal/session"
	"airwave/web"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Public   *handlers.Public
	Submit   *handlers.Submit
	Auth     *handlers.Auth
	Editor   *handlers.Editor
	Homepage *handlers.Homepage
	API      *handlers.API
	Upload   *handlers.Upload
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check. No auth, no CSRF.
	r.Get("/health", healthHandler)

	// Static assets, embedded at build time.
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public site.
	r.Get("/", h.Public.Home)
	r.Get("/features", h.Public.Features)
	r.Get("/features/{id}", h.Public.FeatureDetail)
	r.Get("/sessions", h.Public.Sessions)
	r.Get("/playlists", h.Public.Playlists)
	r.Get("/media", h.Public.Media)
	r.Get("/about", h.Public.About)

	// Contributor intake, rate limited per client IP.
	submitLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(submitLimiter.Middleware)
		r.Get("/submit", h.Submit.Form)
		r.Post("/submit", h.Submit.Create)
	})

	// Editor interface.
	r.Route("/editor", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth pages, accessible without a session.
		r.Get("/login", h.Auth.LoginPage)
		r.Post("/login", h.Auth.LoginSubmit)
		r.Post("/logout", h.Auth.Logout)

		// 2FA enrollment and verification: requires auth but not a
		// completed challenge.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa", h.Auth.TwoFAPage)
			r.Post("/2fa", h.Auth.TwoFASubmit)
		})

		// Authenticated editor area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", h.Editor.Dashboard)
			r.Get("/dashboard", h.Editor.Dashboard)
			r.Get("/submissions", h.Editor.Submissions)
			r.Get("/submissions/{id}/preview", h.Editor.Preview)
			r.Get("/published", h.Editor.Published)

			// Content edits and homepage curation mutate published
			// rows, so they are superuser territory.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSuperuser)
				r.Get("/content/{kind}/{id}/edit", h.Editor.EditForm)
				r.Post("/content/{kind}/{id}/edit", h.Editor.EditSubmit)
				r.Get("/homepage", h.Homepage.Page)
				r.Post("/homepage", h.Homepage.Submit)
			})
		})
	})

	// JSON API driving the editor UI. All mutations require a superuser.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireSuperuser)

		r.Post("/submissions/{id}/approve", h.API.ApproveSubmission)
		r.Post("/submissions/{id}/reject", h.API.RejectSubmission)
		r.Post("/content/{kind}/{id}/toggle", h.API.ToggleContent)
		r.Post("/content/{kind}/{id}/delete", h.API.DeleteContent)
		r.Post("/content/{kind}/{id}/feature", h.API.FeatureContent)
		r.Post("/media/{id}/toggle-status", h.API.ToggleMedia)
		r.Post("/uploads/editor-image", h.Upload.EditorImage)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
