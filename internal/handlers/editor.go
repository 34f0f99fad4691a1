package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airwave/internal/cache"
	"airwave/internal/models"
	"airwave/internal/render"
	"airwave/internal/richtext"
	"airwave/internal/storage"
	"airwave/internal/store"
)

// presignTTL bounds how long a submission attachment preview link stays
// valid once an editor opens it.
const presignTTL = 15 * time.Minute

// Editor serves the authenticated editor pages: dashboard, review queue,
// published content, and the per-item edit forms.
type Editor struct {
	renderer    *render.Renderer
	submissions *store.SubmissionStore
	articles    *store.ArticleStore
	sessions    *store.SessionStore
	playlists   *store.PlaylistStore
	media       *store.MediaStore
	storage     *storage.Client
	pageCache   *cache.PageCache
}

// NewEditor creates a new Editor handler group.
func NewEditor(renderer *render.Renderer, submissions *store.SubmissionStore,
	articles *store.ArticleStore, sessions *store.SessionStore,
	playlists *store.PlaylistStore, media *store.MediaStore,
	storageClient *storage.Client, pageCache *cache.PageCache) *Editor {
	return &Editor{
		renderer:    renderer,
		submissions: submissions,
		articles:    articles,
		sessions:    sessions,
		playlists:   playlists,
		media:       media,
		storage:     storageClient,
		pageCache:   pageCache,
	}
}

// Dashboard shows queue depth and today's approval count.
func (e *Editor) Dashboard(w http.ResponseWriter, r *http.Request) {
	pending, err := e.submissions.CountUnreviewed()
	if err != nil {
		slog.Error("count unreviewed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	approved, err := e.submissions.CountApprovedToday()
	if err != nil {
		slog.Error("count approved today failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	e.renderer.Page(w, r, "editor/dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{
			"PendingCount":  pending,
			"ApprovedToday": approved,
		},
	})
}

// Submissions lists the unreviewed queue, oldest first.
func (e *Editor) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := e.submissions.ListUnreviewed()
	if err != nil {
		slog.Error("list unreviewed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	e.renderer.Page(w, r, "editor/submissions", &render.PageData{
		Title:   "Review Queue",
		Section: "submissions",
		Data:    map[string]any{"Submissions": subs},
	})
}

// Preview shows one submission in full before a review decision,
// rendering its markdown body and presigning the attachment if any.
func (e *Editor) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sub, err := e.submissions.FindByID(id)
	if err != nil {
		slog.Error("submission lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.NotFound(w, r)
		return
	}

	data := map[string]any{"Submission": sub}
	if sub.ContentText != "" {
		body, err := richtext.RenderMarkdown(sub.ContentText)
		if err != nil {
			slog.Error("markdown render failed", "submission", sub.ID, "error", err)
			body = richtext.SanitizeHTML(sub.ContentText)
		}
		data["RenderedBody"] = body
	}
	if sub.File != "" && e.storage != nil {
		url, err := e.storage.PresignedURL(r.Context(), sub.File, presignTTL)
		if err != nil {
			slog.Error("presign attachment failed", "submission", sub.ID, "error", err)
		} else {
			data["AttachmentURL"] = url
		}
	}

	e.renderer.Page(w, r, "editor/preview", &render.PageData{
		Title:   "Preview: " + sub.Title,
		Section: "submissions",
		Data:    data,
	})
}

// Published lists every content item across the four kinds, whatever its
// status, so editors can re-publish hidden items.
func (e *Editor) Published(w http.ResponseWriter, r *http.Request) {
	articles, err := e.articles.ListAll()
	if err != nil {
		slog.Error("list articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sessions, err := e.sessions.ListAll()
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	playlists, err := e.playlists.ListAll()
	if err != nil {
		slog.Error("list playlists failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	media, err := e.media.ListAll()
	if err != nil {
		slog.Error("list media failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	e.renderer.Page(w, r, "editor/published", &render.PageData{
		Title:   "Published Content",
		Section: "published",
		Data:    map[string]any{
			"Articles":  articles,
			"Sessions":  sessions,
			"Playlists": playlists,
			"Media":     media,
		},
	})
}

// EditForm renders the edit form for a content item of any kind.
func (e *Editor) EditForm(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, found, err := e.editData(kind, id)
	if err != nil {
		slog.Error("content lookup failed", "kind", kind, "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	e.renderer.Page(w, r, "editor/edit", &render.PageData{
		Title:   "Edit",
		Section: "published",
		Data:    data,
	})
}

// editData loads the item and packages it with its shared base for the
// form template.
func (e *Editor) editData(kind models.Kind, id int64) (map[string]any, bool, error) {
	data := map[string]any{"Kind": string(kind)}

	var base *models.ContentBase
	switch kind {
	case models.KindArticle:
		a, err := e.articles.FindByID(id)
		if err != nil || a == nil {
			return nil, false, err
		}
		base = &a.ContentBase
		data["Article"] = a
	case models.KindSession:
		s, err := e.sessions.FindByID(id)
		if err != nil || s == nil {
			return nil, false, err
		}
		base = &s.ContentBase
		data["ContentSession"] = s
	case models.KindPlaylist:
		p, err := e.playlists.FindByID(id)
		if err != nil || p == nil {
			return nil, false, err
		}
		base = &p.ContentBase
		data["Playlist"] = p
	case models.KindMedia:
		m, err := e.media.FindByID(id)
		if err != nil || m == nil {
			return nil, false, err
		}
		base = &m.ContentBase
		data["Media"] = m
	}

	data["Base"] = base
	if base.CustomPublicationDate != nil {
		data["CustomDate"] = base.CustomPublicationDate.Format("2006-01-02")
	} else {
		data["CustomDate"] = ""
	}
	return data, true, nil
}

// EditSubmit applies the posted edit form to a content item.
func (e *Editor) EditSubmit(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")
	status := r.FormValue("status")
	if msg := validateContentEdit(title, description, status); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	var customDate *time.Time
	if raw := r.FormValue("custom_publication_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid custom publication date.", http.StatusBadRequest)
			return
		}
		customDate = &parsed
	}

	apply := func(base *models.ContentBase) {
		base.Title = title
		base.Description = description
		base.Status = models.Status(status)
		base.CustomPublicationDate = customDate
		if base.Status == models.StatusPublished && base.PublishedAt == nil {
			now := time.Now()
			base.PublishedAt = &now
		}
	}

	var err error
	switch kind {
	case models.KindArticle:
		var a *models.Article
		if a, err = e.articles.FindByID(id); err == nil && a != nil {
			apply(&a.ContentBase)
			a.Content = richtext.SanitizeHTML(r.FormValue("content"))
			a.Excerpt = r.FormValue("excerpt")
			if at := models.ArticleType(r.FormValue("article_type")); at != "" {
				a.ArticleType = at
			}
			err = e.articles.Update(a)
		} else if a == nil && err == nil {
			http.NotFound(w, r)
			return
		}
	case models.KindSession:
		var s *models.Session
		if s, err = e.sessions.FindByID(id); err == nil && s != nil {
			apply(&s.ContentBase)
			if st := models.SessionType(r.FormValue("session_type")); st != "" {
				s.SessionType = st
			}
			s.Location = r.FormValue("location")
			s.VideoURL = r.FormValue("video_url")
			s.AudioURL = r.FormValue("audio_url")
			err = e.sessions.Update(s)
		} else if s == nil && err == nil {
			http.NotFound(w, r)
			return
		}
	case models.KindPlaylist:
		var p *models.Playlist
		if p, err = e.playlists.FindByID(id); err == nil && p != nil {
			apply(&p.ContentBase)
			p.PlaylistURL = r.FormValue("playlist_url")
			if pf := models.Platform(r.FormValue("platform")); pf != "" {
				p.Platform = pf
			}
			p.Genre = r.FormValue("genre")
			if c := r.FormValue("cover_color"); c != "" {
				p.CoverColor = c
			}
			err = e.playlists.Update(p)
		} else if p == nil && err == nil {
			http.NotFound(w, r)
			return
		}
	case models.KindMedia:
		var m *models.Media
		if m, err = e.media.FindByID(id); err == nil && m != nil {
			apply(&m.ContentBase)
			if mt := models.MediaType(r.FormValue("media_type")); mt != "" {
				m.MediaType = mt
			}
			err = e.media.Update(m)
		} else if m == nil && err == nil {
			http.NotFound(w, r)
			return
		}
	}
	if err != nil {
		slog.Error("content update failed", "kind", kind, "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	e.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/editor/published", http.StatusSeeOther)
}
