package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"airwave/internal/models"
	"airwave/internal/musicembed"
)

const playlistColumns = `id, title, description, author_name, author_email, author_class_year,
	status, content_type, created_at, updated_at, published_at, custom_publication_date,
	views, featured, homepage_order,
	platform, playlist_url, track_count, duration, cover_color,
	platform_id, embed_html, creator_name, genre`

// PlaylistStore handles all playlist-related database operations.
// Embed markup and platform metadata are derived from the playlist URL at
// save time via the configured Deriver, and lazily regenerated on read
// when the cached markup is missing.
type PlaylistStore struct {
	db      *sql.DB
	deriver musicembed.Deriver
}

// NewPlaylistStore creates a new PlaylistStore with the given database
// connection and embed deriver.
func NewPlaylistStore(db *sql.DB, deriver musicembed.Deriver) *PlaylistStore {
	return &PlaylistStore{db: db, deriver: deriver}
}

func scanPlaylist(row rowScanner) (*models.Playlist, error) {
	p := &models.Playlist{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.AuthorName, &p.AuthorEmail, &p.AuthorClassYear,
		&p.Status, &p.ContentType, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt, &p.CustomPublicationDate,
		&p.Views, &p.Featured, &p.HomepageOrder,
		&p.Platform, &p.PlaylistURL, &p.TrackCount, &p.Duration, &p.CoverColor,
		&p.PlatformID, &p.EmbedHTML, &p.CreatorName, &p.Genre,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// derive fills PlatformID, CreatorName, and EmbedHTML from the playlist URL.
// Existing creator names are never overwritten.
func (s *PlaylistStore) derive(p *models.Playlist) {
	if p.PlaylistURL == "" {
		return
	}
	if html, ok := s.deriver.EmbedHTML(p.PlaylistURL); ok {
		p.EmbedHTML = html
	}
	if meta, ok := s.deriver.Extract(p.PlaylistURL); ok {
		p.PlatformID = meta.PlatformID
		if p.CreatorName == "" && meta.Creator != "" {
			p.CreatorName = meta.Creator
		}
	}
}

// refreshEmbed regenerates missing embed markup on read and persists it,
// mirroring the lazy regeneration contract. Failures are logged, not
// surfaced: a playlist without embed markup still renders as a link.
func (s *PlaylistStore) refreshEmbed(p *models.Playlist) {
	if p.EmbedHTML != "" || p.PlaylistURL == "" {
		return
	}
	html, ok := s.deriver.EmbedHTML(p.PlaylistURL)
	if !ok {
		return
	}
	p.EmbedHTML = html
	if _, err := s.db.Exec(`UPDATE playlists SET embed_html = $1 WHERE id = $2`, html, p.ID); err != nil {
		slog.Warn("persist regenerated embed failed", "playlist_id", p.ID, "error", err)
	}
}

// FindByID retrieves a playlist by id. Returns nil if not found.
func (s *PlaylistStore) FindByID(id int64) (*models.Playlist, error) {
	p, err := scanPlaylist(s.db.QueryRow(
		`SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist by id: %w", err)
	}
	s.refreshEmbed(p)
	return p, nil
}

// ListPublished returns all published playlists in display order.
func (s *PlaylistStore) ListPublished() ([]models.Playlist, error) {
	rows, err := s.db.Query(
		`SELECT ` + playlistColumns + ` FROM playlists WHERE status = 'published' ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list published playlists: %w", err)
	}
	defer rows.Close()

	var items []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		s.refreshEmbed(&items[i])
	}
	return items, nil
}

// ListAll returns every playlist regardless of status, in display order.
// Embeds are not refreshed here; the editor view shows metadata only.
func (s *PlaylistStore) ListAll() ([]models.Playlist, error) {
	rows, err := s.db.Query(
		`SELECT ` + playlistColumns + ` FROM playlists ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var items []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListRecentPublished returns the most recently published playlists, newest
// first, up to limit. Used by the homepage playlists section.
func (s *PlaylistStore) ListRecentPublished(limit int) ([]models.Playlist, error) {
	rows, err := s.db.Query(
		`SELECT `+playlistColumns+` FROM playlists
		 WHERE status = 'published'
		 ORDER BY published_at DESC NULLS LAST
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent playlists: %w", err)
	}
	defer rows.Close()

	var items []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		s.refreshEmbed(&items[i])
	}
	return items, nil
}

// Create inserts a new playlist, deriving embed markup and platform
// metadata from its URL, and returns it with generated fields.
func (s *PlaylistStore) Create(p *models.Playlist) (*models.Playlist, error) {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.CoverColor == "" {
		p.CoverColor = "#000000"
	}
	s.derive(p)

	created, err := scanPlaylist(s.db.QueryRow(`
		INSERT INTO playlists (title, description, author_name, author_email, author_class_year,
		                       status, content_type, published_at, custom_publication_date,
		                       platform, playlist_url, track_count, duration, cover_color,
		                       platform_id, embed_html, creator_name, genre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+playlistColumns,
		p.Title, p.Description, p.AuthorName, p.AuthorEmail, p.AuthorClassYear,
		p.Status, p.ContentType, p.PublishedAt, p.CustomPublicationDate,
		p.Platform, p.PlaylistURL, p.TrackCount, p.Duration, p.CoverColor,
		p.PlatformID, p.EmbedHTML, p.CreatorName, p.Genre,
	))
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return created, nil
}

// Update modifies an existing playlist, re-deriving embed markup from the
// (possibly changed) playlist URL.
func (s *PlaylistStore) Update(p *models.Playlist) error {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	s.derive(p)

	res, err := s.db.Exec(`
		UPDATE playlists SET
			title = $1, description = $2, status = $3, published_at = $4,
			custom_publication_date = $5, platform = $6, playlist_url = $7,
			track_count = $8, duration = $9, cover_color = $10,
			platform_id = $11, embed_html = $12, creator_name = $13, genre = $14,
			featured = $15, homepage_order = $16, updated_at = NOW()
		WHERE id = $17
	`, p.Title, p.Description, p.Status, p.PublishedAt,
		p.CustomPublicationDate, p.Platform, p.PlaylistURL,
		p.TrackCount, p.Duration, p.CoverColor,
		p.PlatformID, p.EmbedHTML, p.CreatorName, p.Genre,
		p.Featured, p.HomepageOrder, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a playlist.
func (s *PlaylistStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
