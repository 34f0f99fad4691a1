package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"airwave/internal/cache"
	"airwave/internal/middleware"
	"airwave/internal/render"
	"airwave/internal/storage"
	"airwave/internal/store"
)

// homepageSections lists the section names the order form accepts.
var homepageSections = map[string]bool{
	"featured":  true,
	"sessions":  true,
	"playlists": true,
}

// Homepage serves the editor's homepage curation page. All four forms on
// the page post back here with an action discriminator.
type Homepage struct {
	renderer  *render.Renderer
	homepage  *store.HomepageStore
	articles  *store.ArticleStore
	featured  *store.FeaturedStore
	storage   *storage.Client
	pageCache *cache.PageCache
}

// NewHomepage creates a new Homepage handler group.
func NewHomepage(renderer *render.Renderer, homepage *store.HomepageStore,
	articles *store.ArticleStore, featured *store.FeaturedStore,
	storageClient *storage.Client, pageCache *cache.PageCache) *Homepage {
	return &Homepage{
		renderer:  renderer,
		homepage:  homepage,
		articles:  articles,
		featured:  featured,
		storage:   storageClient,
		pageCache: pageCache,
	}
}

// Page renders the curation forms with the current configuration.
func (h *Homepage) Page(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.homepage.Get()
	if err != nil {
		slog.Error("homepage config lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	articles, err := h.articles.ListPublished()
	if err != nil {
		slog.Error("list published articles failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	featured, err := h.featured.List(10)
	if err != nil {
		slog.Error("list featured items failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.renderer.Page(w, r, "editor/homepage", &render.PageData{
		Title:   "Homepage",
		Section: "homepage",
		Data:    map[string]any{
			"Config":            cfg,
			"PublishedArticles": articles,
			"FeaturedItems":     featured,
			"SectionsOrderCSV":  strings.Join(cfg.SectionsOrder, ", "),
		},
	})
}

// Submit dispatches one of the curation forms on its action value.
func (h *Homepage) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSubmissionUpload); err != nil {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/editor/login", http.StatusSeeOther)
		return
	}

	var err error
	switch r.FormValue("action") {
	case "update_config":
		err = h.updateConfig(r)
	case "set_featured_article":
		err = h.setFeaturedArticle(r)
	case "update_featured_content":
		err = h.updateFeaturedContent(r)
	case "update_sections_order":
		err = h.updateSectionsOrder(r)
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Featured article must be a published article.", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("homepage update failed", "action", r.FormValue("action"), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.pageCache.InvalidateHomepage(r.Context())
	http.Redirect(w, r, "/editor/homepage", http.StatusSeeOther)
}

// updateConfig saves the section toggles, per-section item counts, and
// hero text.
func (h *Homepage) updateConfig(r *http.Request) error {
	sess := middleware.SessionFromCtx(r.Context())

	cfg, err := h.homepage.Get()
	if err != nil {
		return err
	}

	return h.homepage.UpdateSections(
		r.FormValue("show_featured_section") != "",
		r.FormValue("show_sessions_section") != "",
		r.FormValue("show_playlists_section") != "",
		parseCount(r.FormValue("sessions_count"), cfg.SessionsCount),
		parseCount(r.FormValue("playlists_count"), cfg.PlaylistsCount),
		r.FormValue("hero_title"),
		r.FormValue("hero_subtitle"),
		sess.UserID,
	)
}

// parseCount reads a positive section count from the form, keeping the
// current value when the field is empty or malformed.
func parseCount(raw string, current int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return current
	}
	return n
}

// setFeaturedArticle points the featured slot at a published article.
func (h *Homepage) setFeaturedArticle(r *http.Request) error {
	return h.repointFeaturedArticle(r, r.FormValue("article_id"))
}

func (h *Homepage) repointFeaturedArticle(r *http.Request, raw string) error {
	sess := middleware.SessionFromCtx(r.Context())
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	article, err := h.articles.FindPublishedByID(id)
	if err != nil {
		return err
	}
	if article == nil {
		return store.ErrNotFound
	}
	return h.homepage.SetFeaturedArticle(article.ID, sess.UserID)
}

// updateFeaturedContent saves the override fields, uploading a custom
// image to the public bucket when one is attached.
func (h *Homepage) updateFeaturedContent(r *http.Request) error {
	sess := middleware.SessionFromCtx(r.Context())

	cfg, err := h.homepage.Get()
	if err != nil {
		return err
	}

	imageKey := cfg.FeaturedImage
	if r.FormValue("remove_featured_image") != "" {
		if imageKey != "" && h.storage != nil {
			if err := h.storage.DeletePublic(r.Context(), imageKey); err != nil {
				slog.Error("delete featured image failed", "key", imageKey, "error", err)
			}
		}
		imageKey = ""
	}

	file, header, err := r.FormFile("featured_image")
	if err == nil {
		defer file.Close()
		key, uploadErr := h.storeFeaturedImage(r, file, header.Filename, header.Size)
		if uploadErr != nil {
			return uploadErr
		}
		imageKey = key
	}

	// The overrides form can repoint the featured article in the same
	// save; an absent field leaves the current pick alone.
	if raw := r.FormValue("featured_article_id"); raw != "" {
		if err := h.repointFeaturedArticle(r, raw); err != nil {
			return err
		}
	}

	return h.homepage.UpdateFeaturedOverrides(
		r.FormValue("featured_title"),
		r.FormValue("featured_description"),
		r.FormValue("featured_button_text"),
		imageKey,
		sess.UserID,
	)
}

func (h *Homepage) storeFeaturedImage(r *http.Request, file io.ReadSeeker, filename string, size int64) (string, error) {
	if h.storage == nil {
		return "", errStorageUnavailable
	}
	if size > maxSubmissionUpload {
		return "", errUploadTooLarge
	}

	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		return "", errUploadNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := storage.ObjectKey("homepage", filename)
	if err := h.storage.UploadPublic(r.Context(), key, contentType, file, size); err != nil {
		return "", err
	}
	return key, nil
}

// updateSectionsOrder parses the comma separated order, dropping unknown
// and duplicated section names.
func (h *Homepage) updateSectionsOrder(r *http.Request) error {
	sess := middleware.SessionFromCtx(r.Context())

	var order []string
	seen := map[string]bool{}
	for _, part := range strings.Split(r.FormValue("sections_order"), ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if homepageSections[name] && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	return h.homepage.SetSectionsOrder(order, sess.UserID)
}
