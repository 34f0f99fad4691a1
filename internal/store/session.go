package store

import (
	"database/sql"
	"fmt"
	"time"

	"airwave/internal/models"
)

const sessionColumns = `id, title, description, author_name, author_email, author_class_year,
	status, content_type, created_at, updated_at, published_at, custom_publication_date,
	views, featured, homepage_order,
	session_type, location, video_url, audio_url, cover_image, content`

// SessionStore handles all session-related database operations.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SessionStore with the given database connection.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func scanSession(row rowScanner) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.AuthorName, &s.AuthorEmail, &s.AuthorClassYear,
		&s.Status, &s.ContentType, &s.CreatedAt, &s.UpdatedAt, &s.PublishedAt, &s.CustomPublicationDate,
		&s.Views, &s.Featured, &s.HomepageOrder,
		&s.SessionType, &s.Location, &s.VideoURL, &s.AudioURL, &s.CoverImage, &s.Content,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID retrieves a session by id. Returns nil if not found.
func (s *SessionStore) FindByID(id int64) (*models.Session, error) {
	sess, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session by id: %w", err)
	}
	return sess, nil
}

// ListPublished returns all published sessions in display order.
func (s *SessionStore) ListPublished() ([]models.Session, error) {
	rows, err := s.db.Query(
		`SELECT ` + sessionColumns + ` FROM sessions WHERE status = 'published' ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list published sessions: %w", err)
	}
	defer rows.Close()

	var items []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		items = append(items, *sess)
	}
	return items, rows.Err()
}

// ListAll returns every session regardless of status, in display order.
func (s *SessionStore) ListAll() ([]models.Session, error) {
	rows, err := s.db.Query(
		`SELECT ` + sessionColumns + ` FROM sessions ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var items []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		items = append(items, *sess)
	}
	return items, rows.Err()
}

// ListRecentPublished returns the most recently published sessions, newest
// first, up to limit. Used by the homepage sessions section.
func (s *SessionStore) ListRecentPublished(limit int) ([]models.Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE status = 'published'
		 ORDER BY published_at DESC NULLS LAST
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	defer rows.Close()

	var items []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		items = append(items, *sess)
	}
	return items, rows.Err()
}

// Create inserts a new session and returns it with generated fields.
func (s *SessionStore) Create(sess *models.Session) (*models.Session, error) {
	if sess.Status == models.StatusPublished && sess.PublishedAt == nil {
		now := time.Now()
		sess.PublishedAt = &now
	}
	if sess.SessionType == "" {
		sess.SessionType = models.SessionLive
	}

	created, err := scanSession(s.db.QueryRow(`
		INSERT INTO sessions (title, description, author_name, author_email, author_class_year,
		                      status, content_type, published_at, custom_publication_date,
		                      session_type, location, video_url, audio_url, cover_image, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+sessionColumns,
		sess.Title, sess.Description, sess.AuthorName, sess.AuthorEmail, sess.AuthorClassYear,
		sess.Status, sess.ContentType, sess.PublishedAt, sess.CustomPublicationDate,
		sess.SessionType, sess.Location, sess.VideoURL, sess.AudioURL, sess.CoverImage, sess.Content,
	))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

// Update modifies an existing session.
func (s *SessionStore) Update(sess *models.Session) error {
	if sess.Status == models.StatusPublished && sess.PublishedAt == nil {
		now := time.Now()
		sess.PublishedAt = &now
	}

	res, err := s.db.Exec(`
		UPDATE sessions SET
			title = $1, description = $2, status = $3, published_at = $4,
			custom_publication_date = $5, session_type = $6, location = $7,
			video_url = $8, audio_url = $9, cover_image = $10, content = $11,
			featured = $12, homepage_order = $13, updated_at = NOW()
		WHERE id = $14
	`, sess.Title, sess.Description, sess.Status, sess.PublishedAt,
		sess.CustomPublicationDate, sess.SessionType, sess.Location,
		sess.VideoURL, sess.AudioURL, sess.CoverImage, sess.Content,
		sess.Featured, sess.HomepageOrder, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a session.
func (s *SessionStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
