package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"airwave/internal/cache"
	"airwave/internal/models"
)

func TestPublicFeaturesListsOnlyPublished(t *testing.T) {
	env := newTestEnv(t)
	cleanContent(t, env.DB, "public-test visible piece", "public-test hidden piece")

	_, err := env.Articles.Create(&models.Article{
		ContentBase: models.ContentBase{
			Title:       "public-test visible piece",
			AuthorName:  "Sky",
			AuthorEmail: "sky@college.edu",
			Status:      models.StatusPublished,
			ContentType: "article",
		},
		Content:     "<p>Visible</p>",
		ArticleType: models.ArticleFeature,
	})
	if err != nil {
		t.Fatalf("create published article: %v", err)
	}
	_, err = env.Articles.Create(&models.Article{
		ContentBase: models.ContentBase{
			Title:       "public-test hidden piece",
			AuthorName:  "Sky",
			AuthorEmail: "sky@college.edu",
			Status:      models.StatusPrivate,
			ContentType: "article",
		},
		Content:     "<p>Hidden</p>",
		ArticleType: models.ArticleFeature,
	})
	if err != nil {
		t.Fatalf("create private article: %v", err)
	}
	defer cleanContent(t, env.DB, "public-test visible piece", "public-test hidden piece")
	env.PageCache.InvalidateAll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/features", nil)
	rec := httptest.NewRecorder()
	env.Public.Features(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "public-test visible piece") {
		t.Error("published article missing from features page")
	}
	if strings.Contains(body, "public-test hidden piece") {
		t.Error("private article leaked onto features page")
	}
}

func TestPublicFeatureDetail(t *testing.T) {
	env := newTestEnv(t)
	cleanContent(t, env.DB, "public-test detail piece")

	article, err := env.Articles.Create(&models.Article{
		ContentBase: models.ContentBase{
			Title:       "public-test detail piece",
			AuthorName:  "Lee",
			AuthorEmail: "lee@college.edu",
			Status:      models.StatusPublished,
			ContentType: "article",
		},
		Content:     "<p>The full interview text.</p>",
		ArticleType: models.ArticleInterview,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	defer cleanContent(t, env.DB, "public-test detail piece")
	env.PageCache.InvalidateAll(context.Background())

	idStr := strconv.FormatInt(article.ID, 10)
	req := httptest.NewRequest(http.MethodGet, "/features/"+idStr, nil)
	req = withChiURLParams(req, map[string]string{"id": idStr})
	rec := httptest.NewRecorder()
	env.Public.FeatureDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "The full interview text.") {
		t.Error("article body missing from detail page")
	}

	// Hidden articles 404 on the public detail page.
	if _, err := env.Contents.ToggleVisibility(models.KindArticle, article.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	env.PageCache.InvalidateAll(context.Background())

	rec = httptest.NewRecorder()
	env.Public.FeatureDetail(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("private detail status = %d, want 404", rec.Code)
	}
}

func TestPublicFeatureDetailRendersMarkdownBody(t *testing.T) {
	env := newTestEnv(t)
	cleanContent(t, env.DB, "public-test markdown piece")

	article, err := env.Articles.Create(&models.Article{
		ContentBase: models.ContentBase{
			Title:       "public-test markdown piece",
			AuthorName:  "Lee",
			AuthorEmail: "lee@college.edu",
			Status:      models.StatusPublished,
			ContentType: "article",
		},
		Content:     "The set was **loud** and the crowd stayed.\n\n<script>alert(1)</script>",
		ArticleType: models.ArticleFeature,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	defer cleanContent(t, env.DB, "public-test markdown piece")
	env.PageCache.InvalidateAll(context.Background())

	idStr := strconv.FormatInt(article.ID, 10)
	req := httptest.NewRequest(http.MethodGet, "/features/"+idStr, nil)
	req = withChiURLParams(req, map[string]string{"id": idStr})
	rec := httptest.NewRecorder()
	env.Public.FeatureDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>loud</strong>") {
		t.Error("markdown emphasis not rendered on detail page")
	}
	if strings.Contains(body, "<script>") {
		t.Error("script tag survived display-time sanitization")
	}
}

func TestPublicFeatureDetailMissing(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/features/999999999", nil)
	req = withChiURLParams(req, map[string]string{"id": "999999999"})
	rec := httptest.NewRecorder()
	env.Public.FeatureDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPublicHomeHonorsSectionToggles(t *testing.T) {
	env := newTestEnv(t)
	editorID := testEditorID(t, env.DB)

	if err := env.Homepage.UpdateSections(true, true, false,
		models.DefaultSessionsCount, models.DefaultPlaylistsCount,
		"Tune In", "Broadcasting from the basement", editorID); err != nil {
		t.Fatalf("update sections: %v", err)
	}
	env.PageCache.InvalidateAll(context.Background())
	defer env.Homepage.UpdateSections(true, true, true,
		models.DefaultSessionsCount, models.DefaultPlaylistsCount, "", "", editorID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Public.Home(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Tune In") {
		t.Error("hero title missing from homepage")
	}
	if strings.Contains(body, "Fresh Playlists") {
		t.Error("playlists section rendered despite being hidden")
	}
}

func TestPublicHomeServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	env.PageCache.InvalidateAll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Public.Home(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first render status = %d", rec.Code)
	}

	cached, ok := env.PageCache.Get(context.Background(), cache.HomepageKey())
	if !ok {
		t.Fatal("homepage missing from page cache after render")
	}
	if string(cached) != rec.Body.String() {
		t.Error("cached homepage differs from rendered output")
	}

	// The second request is served from the cache byte-for-byte.
	rec2 := httptest.NewRecorder()
	env.Public.Home(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("cached render status = %d", rec2.Code)
	}
	if rec2.Body.String() != rec.Body.String() {
		t.Error("cached response differs from first render")
	}
}

func TestPublicMediaFilterWhitelist(t *testing.T) {
	env := newTestEnv(t)
	cleanContent(t, env.DB, "public-test gallery photo")

	_, err := env.Media.Create(&models.Media{
		ContentBase: models.ContentBase{
			Title:       "public-test gallery photo",
			AuthorName:  "Quinn",
			AuthorEmail: "quinn@college.edu",
			Status:      models.StatusPublished,
			ContentType: "photography",
		},
		MediaType: models.MediaPhotography,
	})
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	defer cleanContent(t, env.DB, "public-test gallery photo")
	env.PageCache.InvalidateAll(context.Background())

	// An unknown type falls back to the unfiltered gallery.
	req := httptest.NewRequest(http.MethodGet, "/media?type=sculpture", nil)
	rec := httptest.NewRecorder()
	env.Public.Media(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "public-test gallery photo") {
		t.Error("gallery item missing from unfiltered fallback")
	}
}
