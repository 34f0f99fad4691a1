package store

import (
	"database/sql"
	"fmt"

	"airwave/internal/models"
)

// Contents bundles the four content-entity stores and implements the
// operations that dispatch on content kind: visibility toggling and hard
// deletion. The kind enum maps onto a fixed table; there is no dynamic
// type lookup.
type Contents struct {
	Articles  *ArticleStore
	Sessions  *SessionStore
	Playlists *PlaylistStore
	Media     *MediaStore

	db *sql.DB
}

// NewContents creates the content-store bundle over a shared connection pool.
func NewContents(db *sql.DB, articles *ArticleStore, sessions *SessionStore, playlists *PlaylistStore, media *MediaStore) *Contents {
	return &Contents{
		Articles:  articles,
		Sessions:  sessions,
		Playlists: playlists,
		Media:     media,
		db:        db,
	}
}

// tableFor maps a content kind to its table name. Kinds outside the enum
// never reach here: ParseKind gates every entry point.
func tableFor(kind models.Kind) string {
	switch kind {
	case models.KindArticle:
		return "articles"
	case models.KindSession:
		return "sessions"
	case models.KindPlaylist:
		return "playlists"
	case models.KindMedia:
		return "media"
	}
	return ""
}

// ToggleVisibility flips an item between published and private and returns
// the resulting status. Published goes private; every other status goes
// published. No other states are reachable through this path.
func (c *Contents) ToggleVisibility(kind models.Kind, id int64) (models.Status, error) {
	table := tableFor(kind)
	if table == "" {
		return "", fmt.Errorf("toggle visibility: unknown kind %q", kind)
	}

	var status models.Status
	err := c.db.QueryRow(`
		UPDATE `+table+` SET
			status = CASE WHEN status = 'published' THEN 'private' ELSE 'published' END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING status
	`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("toggle visibility %s/%d: %w", kind, id, err)
	}
	return status, nil
}

// Delete hard-deletes an item of the given kind. Irreversible.
func (c *Contents) Delete(kind models.Kind, id int64) error {
	table := tableFor(kind)
	if table == "" {
		return fmt.Errorf("delete content: unknown kind %q", kind)
	}

	res, err := c.db.Exec(`DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s/%d: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether an item of the given kind exists.
func (c *Contents) Exists(kind models.Kind, id int64) (bool, error) {
	table := tableFor(kind)
	if table == "" {
		return false, fmt.Errorf("exists: unknown kind %q", kind)
	}

	var found bool
	err := c.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("exists %s/%d: %w", kind, id, err)
	}
	return found, nil
}
