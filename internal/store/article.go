package store

import (
	"database/sql"
	"fmt"
	"time"

	"airwave/internal/models"
)

// articleColumns is the full select list for the articles table, in scan order.
const articleColumns = `id, title, description, author_name, author_email, author_class_year,
	status, content_type, created_at, updated_at, published_at, custom_publication_date,
	views, featured, homepage_order,
	content, excerpt, cover_image, article_type`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func scanArticle(row rowScanner) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.AuthorName, &a.AuthorEmail, &a.AuthorClassYear,
		&a.Status, &a.ContentType, &a.CreatedAt, &a.UpdatedAt, &a.PublishedAt, &a.CustomPublicationDate,
		&a.Views, &a.Featured, &a.HomepageOrder,
		&a.Content, &a.Excerpt, &a.CoverImage, &a.ArticleType,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByID retrieves an article by id. Returns nil if not found.
func (s *ArticleStore) FindByID(id int64) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindPublishedByID retrieves an article only if it is published.
// Used to validate the homepage featured-article selection.
func (s *ArticleStore) FindPublishedByID(id int64) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(
		`SELECT `+articleColumns+` FROM articles WHERE id = $1 AND status = 'published'`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published article: %w", err)
	}
	return a, nil
}

// ListPublished returns all published articles in display order.
func (s *ArticleStore) ListPublished() ([]models.Article, error) {
	rows, err := s.db.Query(
		`SELECT ` + articleColumns + ` FROM articles WHERE status = 'published' ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// ListAll returns every article regardless of status, in display order.
// Used by the editor's content view.
func (s *ArticleStore) ListAll() ([]models.Article, error) {
	rows, err := s.db.Query(
		`SELECT ` + articleColumns + ` FROM articles ORDER BY ` + displayOrder)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// ListRecentPublished returns the most recently published articles, newest
// first, up to limit. Used by the homepage editor's selection list.
func (s *ArticleStore) ListRecentPublished(limit int) ([]models.Article, error) {
	rows, err := s.db.Query(
		`SELECT `+articleColumns+` FROM articles
		 WHERE status = 'published'
		 ORDER BY published_at DESC NULLS LAST
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Create inserts a new article and returns it with generated fields.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}
	if a.ArticleType == "" {
		a.ArticleType = models.ArticleFeature
	}

	created, err := scanArticle(s.db.QueryRow(`
		INSERT INTO articles (title, description, author_name, author_email, author_class_year,
		                      status, content_type, published_at, custom_publication_date,
		                      content, excerpt, cover_image, article_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+articleColumns,
		a.Title, a.Description, a.AuthorName, a.AuthorEmail, a.AuthorClassYear,
		a.Status, a.ContentType, a.PublishedAt, a.CustomPublicationDate,
		a.Content, a.Excerpt, a.CoverImage, a.ArticleType,
	))
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// Update modifies an existing article.
func (s *ArticleStore) Update(a *models.Article) error {
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	res, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, description = $2, status = $3, published_at = $4,
			custom_publication_date = $5, content = $6, excerpt = $7,
			cover_image = $8, article_type = $9, featured = $10, homepage_order = $11,
			updated_at = NOW()
		WHERE id = $12
	`, a.Title, a.Description, a.Status, a.PublishedAt,
		a.CustomPublicationDate, a.Content, a.Excerpt,
		a.CoverImage, a.ArticleType, a.Featured, a.HomepageOrder, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes an article. There is no soft delete.
func (s *ArticleStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
