// Package render provides HTML template rendering for the public site and
// the editor interface. Templates are embedded in the binary; public pages
// render into a buffer so the page cache can store the finished HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"airwave/internal/middleware"
	"airwave/internal/session"
)

//go:embed templates/site/*.html templates/editor/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title       string         // Page title for <title> tag
	Section     string         // Active nav section (e.g., "sessions", "submissions")
	StationName string         // Station branding shown in layouts
	Session     *session.Data  // Current editor session (nil if unauthenticated)
	CSRFToken   string         // CSRF token for forms and fetch headers
	Data        map[string]any // Page-specific data
	Flashes     []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates   map[string]*template.Template
	stationName string
}

// standaloneTemplates lists editor templates that render as full HTML
// pages without the editor layout (they have their own <html>, <head>).
var standaloneTemplates = map[string]bool{
	"editor/login": true,
	"editor/2fa":   true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with its set's base layout.
func New(stationName string) (*Renderer, error) {
	r := &Renderer{
		templates:   make(map[string]*template.Template),
		stationName: stationName,
	}

	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// deref64 dereferences an optional content ID, zero when nil.
		"deref64": func(n *int64) int64 {
			if n == nil {
				return 0
			}
			return *n
		},
		// fmtDate formats a timestamp the way listings show it.
		"fmtDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		// fmtDatePtr formats an optional timestamp, empty when nil.
		"fmtDatePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		// titlecase uppercases the first letter of a tag like "dj_set".
		"titlecase": func(s string) string {
			s = strings.ReplaceAll(s, "_", " ")
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		// safeHTML marks server-sanitized markup as safe to render.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	for _, set := range []string{"site", "editor"} {
		entries, err := templateFS.ReadDir("templates/" + set)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates %s: %w", set, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" {
				continue
			}

			tmplName := set + "/" + strings.TrimSuffix(name, ".html")

			var tmpl *template.Template
			var parseErr error
			if standaloneTemplates[tmplName] {
				tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
					templateFS, "templates/"+set+"/"+name,
				)
			} else {
				tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
					templateFS, "templates/"+set+"/base.html", "templates/"+set+"/"+name,
				)
			}
			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s: %w", tmplName, parseErr)
			}

			r.templates[tmplName] = tmpl
		}
	}

	return r, nil
}

// Page renders a page directly to the response.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	html, err := rn.Render(r, name, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Render executes a page template into a byte slice. Public handlers use
// this so the finished HTML can go into the page cache before being sent.
func (rn *Renderer) Render(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	if data == nil {
		data = &PageData{}
	}
	data.StationName = rn.stationName
	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = strings.TrimPrefix(name, "editor/") + ".html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
