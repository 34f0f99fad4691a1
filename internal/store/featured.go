package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"airwave/internal/models"
)

const featuredColumns = `id, kind, object_id, featured_on_homepage, featured_in_section,
	priority, featured_at, featured_by`

// FeaturedStore manages the homepage featuring side table. One row exists
// per (kind, object id) pair; Toggle creates it as featured and flips the
// boolean on every call after that.
type FeaturedStore struct {
	db *sql.DB
}

// NewFeaturedStore creates a new FeaturedStore with the given database connection.
func NewFeaturedStore(db *sql.DB) *FeaturedStore {
	return &FeaturedStore{db: db}
}

func scanFeatured(row rowScanner) (*models.FeaturedContent, error) {
	f := &models.FeaturedContent{}
	err := row.Scan(
		&f.ID, &f.Kind, &f.ObjectID, &f.FeaturedOnHomepage, &f.FeaturedInSection,
		&f.Priority, &f.FeaturedAt, &f.FeaturedBy,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Toggle upserts the feature row for (kind, objectID) and returns the
// resulting featured state. First call creates the row featured with
// priority 1; each later call flips the boolean. Concurrent toggles race
// at normal transactional granularity, which is accepted.
func (s *FeaturedStore) Toggle(kind models.Kind, objectID int64, by uuid.UUID) (bool, error) {
	var featured bool
	err := s.db.QueryRow(`
		INSERT INTO featured_content (kind, object_id, featured_on_homepage, priority, featured_by)
		VALUES ($1, $2, TRUE, 1, $3)
		ON CONFLICT (kind, object_id) DO UPDATE SET
			featured_on_homepage = NOT featured_content.featured_on_homepage,
			featured_by = EXCLUDED.featured_by
		RETURNING featured_on_homepage
	`, kind, objectID, by).Scan(&featured)
	if err != nil {
		return false, fmt.Errorf("toggle featured %s/%d: %w", kind, objectID, err)
	}
	return featured, nil
}

// Find retrieves the feature row for (kind, objectID). Returns nil if the
// pair has never been featured.
func (s *FeaturedStore) Find(kind models.Kind, objectID int64) (*models.FeaturedContent, error) {
	f, err := scanFeatured(s.db.QueryRow(
		`SELECT `+featuredColumns+` FROM featured_content WHERE kind = $1 AND object_id = $2`,
		kind, objectID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find featured %s/%d: %w", kind, objectID, err)
	}
	return f, nil
}

// List returns feature rows ordered by priority, then recency of
// featuring, up to limit.
func (s *FeaturedStore) List(limit int) ([]models.FeaturedContent, error) {
	rows, err := s.db.Query(`
		SELECT `+featuredColumns+` FROM featured_content
		ORDER BY priority DESC, featured_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured: %w", err)
	}
	defer rows.Close()

	var items []models.FeaturedContent
	for rows.Next() {
		f, err := scanFeatured(rows)
		if err != nil {
			return nil, fmt.Errorf("scan featured: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// Delete removes the feature row for (kind, objectID), if any. Called when
// the underlying content item is deleted.
func (s *FeaturedStore) Delete(kind models.Kind, objectID int64) error {
	if _, err := s.db.Exec(
		`DELETE FROM featured_content WHERE kind = $1 AND object_id = $2`, kind, objectID); err != nil {
		return fmt.Errorf("delete featured %s/%d: %w", kind, objectID, err)
	}
	return nil
}
