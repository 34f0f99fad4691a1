package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"airwave/internal/models"
)

const homepageColumns = `id, featured_article_id, featured_title, featured_description,
	featured_button_text, featured_image,
	show_featured_section, show_sessions_section, show_playlists_section,
	sessions_count, playlists_count, sections_order,
	hero_title, hero_subtitle, created_at, updated_at, updated_by`

// HomepageStore manages the homepage configuration singleton. The row is
// created once by Ensure during startup; request handlers only read and
// update it, never create it.
type HomepageStore struct {
	db *sql.DB
}

// NewHomepageStore creates a new HomepageStore with the given database connection.
func NewHomepageStore(db *sql.DB) *HomepageStore {
	return &HomepageStore{db: db}
}

func scanHomepageConfig(row rowScanner) (*models.HomepageConfig, error) {
	cfg := &models.HomepageConfig{}
	var sections []byte
	err := row.Scan(
		&cfg.ID, &cfg.FeaturedArticleID, &cfg.FeaturedTitle, &cfg.FeaturedDescription,
		&cfg.FeaturedButtonText, &cfg.FeaturedImage,
		&cfg.ShowFeaturedSection, &cfg.ShowSessionsSection, &cfg.ShowPlaylistsSection,
		&cfg.SessionsCount, &cfg.PlaylistsCount, &sections,
		&cfg.HeroTitle, &cfg.HeroSubtitle, &cfg.CreatedAt, &cfg.UpdatedAt, &cfg.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &cfg.SectionsOrder); err != nil {
		return nil, fmt.Errorf("decode sections order: %w", err)
	}
	if len(cfg.SectionsOrder) == 0 {
		cfg.SectionsOrder = models.DefaultSectionsOrder
	}
	return cfg, nil
}

// Ensure creates the singleton row with defaults if it does not exist.
// Called once at process startup.
func (s *HomepageStore) Ensure() error {
	sections, err := json.Marshal(models.DefaultSectionsOrder)
	if err != nil {
		return fmt.Errorf("encode default sections: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO homepage_config (id, sessions_count, playlists_count, sections_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, models.HomepageConfigID, models.DefaultSessionsCount, models.DefaultPlaylistsCount, sections)
	if err != nil {
		return fmt.Errorf("ensure homepage config: %w", err)
	}
	return nil
}

// Get fetches the singleton. Errors if Ensure has not run.
func (s *HomepageStore) Get() (*models.HomepageConfig, error) {
	cfg, err := scanHomepageConfig(s.db.QueryRow(
		`SELECT `+homepageColumns+` FROM homepage_config WHERE id = $1`, models.HomepageConfigID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("homepage config missing: startup Ensure did not run")
	}
	if err != nil {
		return nil, fmt.Errorf("get homepage config: %w", err)
	}
	return cfg, nil
}

// UpdateSections saves section visibility toggles, per-section item
// counts, and hero text.
func (s *HomepageStore) UpdateSections(showFeatured, showSessions, showPlaylists bool,
	sessionsCount, playlistsCount int, heroTitle, heroSubtitle string, updatedBy uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE homepage_config SET
			show_featured_section = $1, show_sessions_section = $2, show_playlists_section = $3,
			sessions_count = $4, playlists_count = $5,
			hero_title = $6, hero_subtitle = $7, updated_by = $8, updated_at = NOW()
		WHERE id = $9
	`, showFeatured, showSessions, showPlaylists, sessionsCount, playlistsCount,
		heroTitle, heroSubtitle, updatedBy, models.HomepageConfigID)
	if err != nil {
		return fmt.Errorf("update homepage sections: %w", err)
	}
	return nil
}

// SetFeaturedArticle points the featured slot at an article.
// Callers must verify the article is published first.
func (s *HomepageStore) SetFeaturedArticle(articleID int64, updatedBy uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE homepage_config SET featured_article_id = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3
	`, articleID, updatedBy, models.HomepageConfigID)
	if err != nil {
		return fmt.Errorf("set featured article: %w", err)
	}
	return nil
}

// UpdateFeaturedOverrides saves the featured slot's custom title,
// description, button text, and image key. An empty image key clears the
// custom image.
func (s *HomepageStore) UpdateFeaturedOverrides(title, description, buttonText, imageKey string, updatedBy uuid.UUID) error {
	if buttonText == "" {
		buttonText = models.DefaultFeaturedButtonText
	}
	_, err := s.db.Exec(`
		UPDATE homepage_config SET
			featured_title = $1, featured_description = $2, featured_button_text = $3,
			featured_image = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $6
	`, title, description, buttonText, imageKey, updatedBy, models.HomepageConfigID)
	if err != nil {
		return fmt.Errorf("update featured overrides: %w", err)
	}
	return nil
}

// SetSectionsOrder saves the declared render order of homepage sections.
func (s *HomepageStore) SetSectionsOrder(order []string, updatedBy uuid.UUID) error {
	if len(order) == 0 {
		order = models.DefaultSectionsOrder
	}
	encoded, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode sections order: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE homepage_config SET sections_order = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3
	`, encoded, updatedBy, models.HomepageConfigID)
	if err != nil {
		return fmt.Errorf("set sections order: %w", err)
	}
	return nil
}
