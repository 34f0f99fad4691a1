package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"airwave/internal/cache"
	"airwave/internal/middleware"
	"airwave/internal/models"
	"airwave/internal/moderation"
	"airwave/internal/store"
)

// API serves the superuser JSON endpoints driving the editor UI's review
// and content management buttons.
type API struct {
	moderation *moderation.Service
	contents   *store.Contents
	featured   *store.FeaturedStore
	pageCache  *cache.PageCache
}

// NewAPI creates a new API handler group.
func NewAPI(mod *moderation.Service, contents *store.Contents,
	featured *store.FeaturedStore, pageCache *cache.PageCache) *API {
	return &API{
		moderation: mod,
		contents:   contents,
		featured:   featured,
		pageCache:  pageCache,
	}
}

// ApproveSubmission publishes a submission as a content item.
func (a *API) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	result, err := a.moderation.Approve(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		apiError(w, http.StatusNotFound, "submission not found")
		return
	case errors.Is(err, moderation.ErrAlreadyReviewed):
		apiError(w, http.StatusConflict, "submission already reviewed")
		return
	case err != nil:
		slog.Error("approve failed", "submission", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	apiSuccess(w, map[string]any{
		"kind": string(result.Kind),
		"id":   result.ID,
	})
}

// RejectSubmission marks a submission reviewed without publishing.
func (a *API) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	err := a.moderation.Reject(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		apiError(w, http.StatusNotFound, "submission not found")
		return
	case errors.Is(err, moderation.ErrAlreadyReviewed):
		apiError(w, http.StatusConflict, "submission already reviewed")
		return
	case err != nil:
		slog.Error("reject failed", "submission", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	apiSuccess(w, nil)
}

// kindAndID parses the {kind} and {id} route parameters.
func kindAndID(w http.ResponseWriter, r *http.Request) (models.Kind, int64, bool) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		apiError(w, http.StatusBadRequest, "unknown content kind")
		return "", 0, false
	}
	id, ok := idParam(r)
	if !ok {
		apiError(w, http.StatusBadRequest, "invalid content id")
		return "", 0, false
	}
	return kind, id, true
}

// ToggleContent cycles an item between published and private.
func (a *API) ToggleContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := kindAndID(w, r)
	if !ok {
		return
	}

	status, err := a.contents.ToggleVisibility(kind, id)
	if errors.Is(err, store.ErrNotFound) {
		apiError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		slog.Error("toggle failed", "kind", kind, "id", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	apiSuccess(w, map[string]any{"status": string(status)})
}

// DeleteContent removes an item permanently.
func (a *API) DeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := kindAndID(w, r)
	if !ok {
		return
	}

	err := a.contents.Delete(kind, id)
	if errors.Is(err, store.ErrNotFound) {
		apiError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		slog.Error("delete failed", "kind", kind, "id", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The feature row points at a gone item; drop it so it cannot
	// resurface in the curation list.
	if err := a.featured.Delete(kind, id); err != nil {
		slog.Error("delete feature row failed", "kind", kind, "id", id, "error", err)
	}

	slog.Info("content deleted", "kind", kind, "id", id)
	a.pageCache.InvalidateAll(r.Context())
	apiSuccess(w, nil)
}

// FeatureContent toggles an item's homepage-featured mark: the first call
// creates the record as featured, later calls flip it.
func (a *API) FeatureContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := kindAndID(w, r)
	if !ok {
		return
	}

	exists, err := a.contents.Exists(kind, id)
	if err != nil {
		slog.Error("feature lookup failed", "kind", kind, "id", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !exists {
		apiError(w, http.StatusNotFound, "content not found")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	featured, err := a.featured.Toggle(kind, id, sess.UserID)
	if err != nil {
		slog.Error("feature toggle failed", "kind", kind, "id", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.pageCache.InvalidateHomepage(r.Context())
	apiSuccess(w, map[string]any{"featured": featured})
}

// ToggleMedia cycles a gallery item's visibility, reporting the action
// taken so the gallery UI can update its button label.
func (a *API) ToggleMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	status, err := a.contents.ToggleVisibility(models.KindMedia, id)
	if errors.Is(err, store.ErrNotFound) {
		apiError(w, http.StatusNotFound, "media not found")
		return
	}
	if err != nil {
		slog.Error("media toggle failed", "id", id, "error", err)
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	action := "hidden"
	if status == models.StatusPublished {
		action = "published"
	}
	a.pageCache.InvalidateAll(r.Context())
	apiSuccess(w, map[string]any{"action": action, "status": string(status)})
}
