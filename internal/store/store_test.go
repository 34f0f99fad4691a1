// store_test.go provides shared test infrastructure for store integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"airwave/internal/database"
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

	t.Cleanup(func() { db.Close() })
	return db
}

// testEditor returns the ID of a superuser account for FK references,
// creating one if the database is empty.
func testEditor(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(`SELECT id FROM users WHERE superuser = TRUE LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`
			INSERT INTO users (username, email, password_hash, display_name, superuser)
			VALUES ('test-editor', 'test-editor@airwave.local', 'x', 'Test Editor', TRUE)
			ON CONFLICT (username) DO UPDATE SET superuser = TRUE
			RETURNING id
		`).Scan(&id)
	}
	if err != nil {
		t.Fatalf("test editor: %v", err)
	}
	return id
}

// cleanTables removes rows created by a test, matched by title prefix.
func cleanTables(t *testing.T, db *sql.DB, titlePrefix string) {
	t.Helper()
	for _, table := range []string{"articles", "sessions", "playlists", "media", "submissions"} {
		if _, err := db.Exec(`DELETE FROM `+table+` WHERE title LIKE $1`, titlePrefix+"%"); err != nil {
			t.Logf("cleanup %s: %v", table, err)
		}
	}
}
