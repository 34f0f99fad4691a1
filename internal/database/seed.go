package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default superuser editor account if no users exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("editor"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, display_name, superuser)
		VALUES ($1, $2, $3, $4, $5)
	`, "editor", "editor@airwave.local", string(hash), "Station Editor", true)
	if err != nil {
		return fmt.Errorf("seed insert editor: %w", err)
	}

	slog.Info("database seeded with default superuser",
		"username", "editor",
		"password", "editor",
	)

	return nil
}
