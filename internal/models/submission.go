package models

import "time"

// Submission is untyped contributor intake awaiting editorial review.
// It is a superset of the contributor-fillable fields across all content
// kinds. Contributor input is immutable: review only flips the Reviewed
// and Approved flags and never touches the content fields.
type Submission struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	AuthorName      string `json:"author_name"`
	AuthorEmail     string `json:"author_email"`
	AuthorClassYear string `json:"author_class_year,omitempty"`

	// ContentType is the contributor's declared kind. It is stored
	// verbatim; approval dispatch maps unknown values to Article.
	ContentType string `json:"content_type"`

	ContentText string `json:"content_text,omitempty"` // articles
	PlaylistURL string `json:"playlist_url,omitempty"` // playlists
	Platform    string `json:"platform,omitempty"`     // playlists
	File        string `json:"file,omitempty"`         // media attachment storage key
	FileSize    string `json:"file_size,omitempty"`    // display string, e.g. "2.4 MB"
	Dimensions  string `json:"dimensions,omitempty"`   // display string, e.g. "1920x1080"

	CreatedAt time.Time `json:"created_at"`
	Reviewed  bool      `json:"reviewed"`
	Approved  bool      `json:"approved"`
}

// submissionTypes lists the content type tags the intake form accepts.
// Broader than the four entity kinds: legacy aliases like "interview" and
// "event" route to an entity at approval time.
var submissionTypes = map[string]bool{
	"article":     true,
	"session":     true,
	"interview":   true,
	"playlist":    true,
	"photography": true,
	"artwork":     true,
	"media":       true,
	"event":       true,
}

// ValidSubmissionType reports whether the intake form accepts the given
// content type tag.
func ValidSubmissionType(s string) bool {
	return submissionTypes[s]
}
