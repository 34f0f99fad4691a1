package store

import (
	"database/sql"
	"fmt"

	"airwave/internal/models"
)

const submissionColumns = `id, title, description, author_name, author_email, author_class_year,
	content_type, content_text, playlist_url, platform, file, file_size, dimensions,
	created_at, reviewed, approved`

// SubmissionStore handles contributor submission intake and review state.
// Contributor content fields are written once at intake; review methods
// only flip the reviewed/approved flags.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore with the given database connection.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	sub := &models.Submission{}
	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Description, &sub.AuthorName, &sub.AuthorEmail, &sub.AuthorClassYear,
		&sub.ContentType, &sub.ContentText, &sub.PlaylistURL, &sub.Platform,
		&sub.File, &sub.FileSize, &sub.Dimensions,
		&sub.CreatedAt, &sub.Reviewed, &sub.Approved,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Create records a new contributor submission.
func (s *SubmissionStore) Create(sub *models.Submission) (*models.Submission, error) {
	created, err := scanSubmission(s.db.QueryRow(`
		INSERT INTO submissions (title, description, author_name, author_email, author_class_year,
		                         content_type, content_text, playlist_url, platform,
		                         file, file_size, dimensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+submissionColumns,
		sub.Title, sub.Description, sub.AuthorName, sub.AuthorEmail, sub.AuthorClassYear,
		sub.ContentType, sub.ContentText, sub.PlaylistURL, sub.Platform,
		sub.File, sub.FileSize, sub.Dimensions,
	))
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

// FindByID retrieves a submission by id. Returns nil if not found.
func (s *SubmissionStore) FindByID(id int64) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return sub, nil
}

// ListUnreviewed returns submissions awaiting review, newest first.
func (s *SubmissionStore) ListUnreviewed() ([]models.Submission, error) {
	rows, err := s.db.Query(
		`SELECT ` + submissionColumns + ` FROM submissions WHERE reviewed = FALSE ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list unreviewed submissions: %w", err)
	}
	defer rows.Close()

	var items []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		items = append(items, *sub)
	}
	return items, rows.Err()
}

// MarkReviewed terminally resolves a submission. Content fields are left
// untouched; only the review flags change.
func (s *SubmissionStore) MarkReviewed(id int64, approved bool) error {
	res, err := s.db.Exec(
		`UPDATE submissions SET reviewed = TRUE, approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return fmt.Errorf("mark submission reviewed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnreviewed returns the number of submissions awaiting review.
func (s *SubmissionStore) CountUnreviewed() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions WHERE reviewed = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unreviewed: %w", err)
	}
	return n, nil
}

// CountApprovedToday returns the number of submissions approved whose
// intake happened today. Shown on the editor dashboard.
func (s *SubmissionStore) CountApprovedToday() (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM submissions WHERE approved = TRUE AND created_at::date = CURRENT_DATE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count approved today: %w", err)
	}
	return n, nil
}
