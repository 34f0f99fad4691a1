// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"airwave/internal/cache"
	"airwave/internal/database"
	"airwave/internal/middleware"
	"airwave/internal/moderation"
	"airwave/internal/musicembed"
	"airwave/internal/render"
	"airwave/internal/session"
	"airwave/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "airwave")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "airwave")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Renderer    *render.Renderer
	Sessions    *session.Store
	Users       *store.UserStore
	Submissions *store.SubmissionStore
	Articles    *store.ArticleStore
	ContentSess *store.SessionStore
	Playlists   *store.PlaylistStore
	Media       *store.MediaStore
	Contents    *store.Contents
	Featured    *store.FeaturedStore
	Homepage    *store.HomepageStore
	Moderation  *moderation.Service
	PageCache   *cache.PageCache
	Public      *Public
	Submit      *Submit
	Auth        *Auth
	Editor      *Editor
	HomepageH   *Homepage
	API         *API
	Upload      *Upload
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Storage-backed features run with a nil storage client.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New("Airwave College Radio")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	submissions := store.NewSubmissionStore(db)
	articles := store.NewArticleStore(db)
	contentSessions := store.NewSessionStore(db)
	playlists := store.NewPlaylistStore(db, musicembed.URLDeriver{})
	media := store.NewMediaStore(db)
	contents := store.NewContents(db, articles, contentSessions, playlists, media)
	featured := store.NewFeaturedStore(db)
	homepage := store.NewHomepageStore(db)
	if err := homepage.Ensure(); err != nil {
		t.Fatalf("homepage ensure: %v", err)
	}
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mod := moderation.NewService(submissions, contents, nil, log)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Renderer:    renderer,
		Sessions:    sessions,
		Users:       users,
		Submissions: submissions,
		Articles:    articles,
		ContentSess: contentSessions,
		Playlists:   playlists,
		Media:       media,
		Contents:    contents,
		Featured:    featured,
		Homepage:    homepage,
		Moderation:  mod,
		PageCache:   pageCache,
		Public:      NewPublic(renderer, articles, contentSessions, playlists, media, homepage, nil, pageCache),
		Submit:      NewSubmit(renderer, submissions, nil),
		Auth:        NewAuth(renderer, sessions, users, "Airwave College Radio"),
		Editor:      NewEditor(renderer, submissions, articles, contentSessions, playlists, media, nil, pageCache),
		HomepageH:   NewHomepage(renderer, homepage, articles, featured, nil, pageCache),
		API:         NewAPI(mod, contents, featured, pageCache),
		Upload:      NewUpload(nil),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, username string, superuser, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Username:    username,
		DisplayName: "Test Editor",
		Superuser:   superuser,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParams adds chi URL parameters to a request.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testEditorID returns a valid user ID for audit fields.
func testEditorID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no users in database, run seed first: %v", err)
	}
	return id
}

// cleanSubmissions removes test submissions by title.
func cleanSubmissions(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM submissions WHERE title = $1", title)
	}
}

// cleanContent removes test rows by title across the content tables.
func cleanContent(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, table := range []string{"articles", "sessions", "playlists", "media"} {
		for _, title := range titles {
			db.Exec("DELETE FROM "+table+" WHERE title = $1", title)
		}
	}
}
