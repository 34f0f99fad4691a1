package handlers

import (
	"log/slog"
	"net/http"

	"airwave/internal/cache"
	"airwave/internal/models"
	"airwave/internal/render"
	"airwave/internal/richtext"
	"airwave/internal/storage"
	"airwave/internal/store"
)

// Public groups handlers for the public-facing site. Every page checks
// the Valkey page cache before touching the database, and stores the
// rendered result on miss. Editorial mutations clear the cache.
type Public struct {
	renderer      *render.Renderer
	articles      *store.ArticleStore
	sessions      *store.SessionStore
	playlists     *store.PlaylistStore
	media         *store.MediaStore
	homepage      *store.HomepageStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewPublic creates a new Public handler group. storageClient may be nil
// if S3 is not configured; image URLs then come out empty.
func NewPublic(renderer *render.Renderer, articles *store.ArticleStore, sessions *store.SessionStore,
	playlists *store.PlaylistStore, media *store.MediaStore, homepage *store.HomepageStore,
	storageClient *storage.Client, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:      renderer,
		articles:      articles,
		sessions:      sessions,
		playlists:     playlists,
		media:         media,
		homepage:      homepage,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// servePage renders a public template through the page cache.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, cacheKey, tmpl string, data *render.PageData) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	html, err := p.renderer.Render(r, tmpl, data)
	if err != nil {
		slog.Error("public page render failed", "template", tmpl, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cacheKey, html)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// fileURL resolves an object storage key to a public URL, empty when
// storage is not configured.
func (p *Public) fileURL(key string) string {
	if p.storageClient == nil || key == "" {
		return ""
	}
	return p.storageClient.FileURL(key)
}

// Home renders the curated homepage: configured hero, the featured
// article slot, and the sessions and playlists sections in their declared
// order, honoring visibility toggles.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if cached, ok := p.pageCache.Get(r.Context(), cache.HomepageKey()); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	cfg, err := p.homepage.Get()
	if err != nil {
		slog.Error("homepage config load failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Config":        cfg,
		"SectionsOrder": cfg.SectionsOrder,
	}

	// Featured slot only resolves published articles; a hidden or deleted
	// pick silently drops out of the page.
	if cfg.ShowFeaturedSection && cfg.FeaturedArticleID != nil {
		art, err := p.articles.FindPublishedByID(*cfg.FeaturedArticleID)
		if err != nil {
			slog.Error("featured article load failed", "error", err)
		} else if art != nil {
			data["FeaturedArticle"] = art
			data["CoverURLs"] = map[int64]string{art.ID: p.fileURL(art.CoverImage)}
			if cfg.FeaturedImage != "" {
				data["FeaturedImageURL"] = p.fileURL(cfg.FeaturedImage)
			}
		}
	}

	if cfg.ShowSessionsSection {
		sessions, err := p.sessions.ListRecentPublished(cfg.SessionsCount)
		if err != nil {
			slog.Error("homepage sessions load failed", "error", err)
		}
		data["Sessions"] = sessions
	}

	if cfg.ShowPlaylistsSection {
		playlists, err := p.playlists.ListRecentPublished(cfg.PlaylistsCount)
		if err != nil {
			slog.Error("homepage playlists load failed", "error", err)
		}
		data["Playlists"] = playlists
	}

	html, err := p.renderer.Render(r, "site/home", &render.PageData{
		Title:   "Home",
		Section: "home",
		Data:    data,
	})
	if err != nil {
		slog.Error("homepage render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(r.Context(), cache.HomepageKey(), html)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Features lists published articles.
func (p *Public) Features(w http.ResponseWriter, r *http.Request) {
	articles, err := p.articles.ListPublished()
	if err != nil {
		slog.Error("list articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.PathKey(r.URL.Path, ""), "site/features", &render.PageData{
		Title:   "Features",
		Section: "features",
		Data:    map[string]any{"Articles": articles},
	})
}

// FeatureDetail renders a single published article.
func (p *Public) FeatureDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	art, err := p.articles.FindPublishedByID(id)
	if err != nil {
		slog.Error("find article failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if art == nil {
		http.NotFound(w, r)
		return
	}

	// Bodies are stored as the contributor or editor wrote them;
	// markdown rendering and sanitization happen here, at display time.
	body, err := richtext.RenderMarkdown(art.Content)
	if err != nil {
		slog.Error("article body render failed", "id", art.ID, "error", err)
		body = richtext.SanitizeHTML(art.Content)
	}

	p.servePage(w, r, cache.PathKey(r.URL.Path, ""), "site/feature", &render.PageData{
		Title:   art.Title,
		Section: "features",
		Data: map[string]any{
			"Article":  art,
			"Body":     body,
			"CoverURL": p.fileURL(art.CoverImage),
		},
	})
}

// Sessions lists published sessions.
func (p *Public) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := p.sessions.ListPublished()
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.PathKey(r.URL.Path, ""), "site/sessions", &render.PageData{
		Title:   "Sessions",
		Section: "sessions",
		Data:    map[string]any{"Sessions": sessions},
	})
}

// Playlists lists published playlists with their embed markup.
func (p *Public) Playlists(w http.ResponseWriter, r *http.Request) {
	playlists, err := p.playlists.ListPublished()
	if err != nil {
		slog.Error("list playlists failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.PathKey(r.URL.Path, ""), "site/playlists", &render.PageData{
		Title:   "Playlists",
		Section: "playlists",
		Data:    map[string]any{"Playlists": playlists},
	})
}

// Media renders the gallery, optionally filtered by ?type=, with
// per-type counts for the filter bar. An unknown type filter falls back
// to the unfiltered view.
func (p *Public) Media(w http.ResponseWriter, r *http.Request) {
	activeType := r.URL.Query().Get("type")
	mediaType := models.MediaType(activeType)
	switch mediaType {
	case models.MediaPhotography, models.MediaArtwork, models.MediaPoster, models.MediaVideo:
	default:
		activeType = ""
		mediaType = ""
	}

	items, err := p.media.ListPublished(mediaType)
	if err != nil {
		slog.Error("list media failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	stats, err := p.media.Stats()
	if err != nil {
		slog.Error("media stats failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	fileURLs := make(map[int64]string, len(items))
	for _, m := range items {
		fileURLs[m.ID] = p.fileURL(m.File)
	}

	p.servePage(w, r, cache.PathKey(r.URL.Path, r.URL.RawQuery), "site/media", &render.PageData{
		Title:   "Gallery",
		Section: "media",
		Data: map[string]any{
			"Items":      items,
			"Stats":      stats,
			"ActiveType": activeType,
			"FileURLs":   fileURLs,
		},
	})
}

// About renders the static about page.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.servePage(w, r, cache.PathKey(r.URL.Path, ""), "site/about", &render.PageData{
		Title:   "About",
		Section: "about",
		Data:    map[string]any{},
	})
}
