package store

import (
	"database/sql"
	"fmt"
	"time"

	"airwave/internal/models"
)

const mediaColumns = `id, title, description, author_name, author_email, author_class_year,
	status, content_type, created_at, updated_at, published_at, custom_publication_date,
	views, featured, homepage_order,
	media_type, file, file_size, dimensions`

// MediaStore handles all media-gallery database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

func scanMedia(row rowScanner) (*models.Media, error) {
	m := &models.Media{}
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.AuthorName, &m.AuthorEmail, &m.AuthorClassYear,
		&m.Status, &m.ContentType, &m.CreatedAt, &m.UpdatedAt, &m.PublishedAt, &m.CustomPublicationDate,
		&m.Views, &m.Featured, &m.HomepageOrder,
		&m.MediaType, &m.File, &m.FileSize, &m.Dimensions,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindByID retrieves a media item by id. Returns nil if not found.
func (s *MediaStore) FindByID(id int64) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(
		`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// ListPublished returns published media in display order, optionally
// filtered by media type. An empty mediaType means all types.
func (s *MediaStore) ListPublished(mediaType models.MediaType) ([]models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE status = 'published'`
	args := []any{}
	if mediaType != "" {
		query += ` AND media_type = $1`
		args = append(args, mediaType)
	}
	query += ` ORDER BY ` + displayOrder

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// ListAll returns every media item regardless of status, in display order.
func (s *MediaStore) ListAll() ([]models.Media, error) {
	rows, err := s.db.Query(
		`SELECT ` + mediaColumns + ` FROM media ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// GalleryStats holds per-type counts of published media for the gallery page.
type GalleryStats struct {
	Total       int `json:"total"`
	Photography int `json:"photography"`
	Artwork     int `json:"artwork"`
	Posters     int `json:"posters"`
	Videos      int `json:"videos"`
}

// Stats counts published media per type in a single pass.
func (s *MediaStore) Stats() (*GalleryStats, error) {
	st := &GalleryStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE media_type = 'photography'),
		       COUNT(*) FILTER (WHERE media_type = 'artwork'),
		       COUNT(*) FILTER (WHERE media_type = 'poster'),
		       COUNT(*) FILTER (WHERE media_type = 'video')
		FROM media WHERE status = 'published'
	`).Scan(&st.Total, &st.Photography, &st.Artwork, &st.Posters, &st.Videos)
	if err != nil {
		return nil, fmt.Errorf("media stats: %w", err)
	}
	return st, nil
}

// Create inserts a new media item and returns it with generated fields.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	if m.Status == models.StatusPublished && m.PublishedAt == nil {
		now := time.Now()
		m.PublishedAt = &now
	}
	if m.MediaType == "" {
		m.MediaType = models.MediaPhotography
	}

	created, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (title, description, author_name, author_email, author_class_year,
		                   status, content_type, published_at, custom_publication_date,
		                   media_type, file, file_size, dimensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+mediaColumns,
		m.Title, m.Description, m.AuthorName, m.AuthorEmail, m.AuthorClassYear,
		m.Status, m.ContentType, m.PublishedAt, m.CustomPublicationDate,
		m.MediaType, m.File, m.FileSize, m.Dimensions,
	))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// Update modifies an existing media item.
func (s *MediaStore) Update(m *models.Media) error {
	if m.Status == models.StatusPublished && m.PublishedAt == nil {
		now := time.Now()
		m.PublishedAt = &now
	}

	res, err := s.db.Exec(`
		UPDATE media SET
			title = $1, description = $2, status = $3, published_at = $4,
			custom_publication_date = $5, media_type = $6, file = $7,
			file_size = $8, dimensions = $9, featured = $10, homepage_order = $11,
			updated_at = NOW()
		WHERE id = $12
	`, m.Title, m.Description, m.Status, m.PublishedAt,
		m.CustomPublicationDate, m.MediaType, m.File,
		m.FileSize, m.Dimensions, m.Featured, m.HomepageOrder, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a media item.
func (s *MediaStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
