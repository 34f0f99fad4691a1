// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Status represents the publication state of a content item.
// There is no enforced transition graph: the visibility toggle cycles
// published/private, and the edit form may set any value directly.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusPrivate   Status = "private"
	StatusRejected  Status = "rejected"
)

// ValidStatus reports whether s is one of the recognized publication states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPublished, StatusArchived, StatusPrivate, StatusRejected:
		return true
	}
	return false
}

// Kind identifies one of the four published content entities. Polymorphic
// "content by kind" operations (toggle, delete, edit, feature) dispatch on
// this enum rather than on dynamic table lookup.
type Kind string

const (
	KindArticle  Kind = "article"
	KindSession  Kind = "session"
	KindPlaylist Kind = "playlist"
	KindMedia    Kind = "media"
)

// ParseKind maps a URL path segment to a content kind. Returns false for
// anything outside the four entity kinds.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindArticle, KindSession, KindPlaylist, KindMedia:
		return Kind(s), true
	}
	return "", false
}

// ContentBase holds the fields shared by every published content kind.
// The concrete entity structs embed it.
type ContentBase struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AuthorName      string     `json:"author_name"`
	AuthorEmail     string     `json:"author_email"`
	AuthorClassYear string     `json:"author_class_year,omitempty"`
	Status          Status     `json:"status"`
	ContentType     string     `json:"content_type"` // tag as originally declared, e.g. "interview"
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`

	// CustomPublicationDate backdates archival imports. When set it wins
	// over published_at and created_at for display purposes.
	CustomPublicationDate *time.Time `json:"custom_publication_date,omitempty"`

	Views         int  `json:"views"`
	Featured      bool `json:"featured"`
	HomepageOrder int  `json:"homepage_order"`
}

// IsPublished returns true if the item is publicly visible.
func (b *ContentBase) IsPublished() bool {
	return b.Status == StatusPublished
}

// DisplayDate resolves the date shown on public pages.
// Precedence: custom publication date, then published_at, then created_at.
func (b *ContentBase) DisplayDate() time.Time {
	if b.CustomPublicationDate != nil {
		return *b.CustomPublicationDate
	}
	if b.PublishedAt != nil {
		return *b.PublishedAt
	}
	return b.CreatedAt
}

// ArticleType categorizes articles on the features page.
type ArticleType string

const (
	ArticleInterview ArticleType = "interview"
	ArticleFeature   ArticleType = "feature"
	ArticleReview    ArticleType = "review"
	ArticleNews      ArticleType = "news"
)

// Article is a written piece: interviews, features, reviews, and news.
type Article struct {
	ContentBase
	Content     string      `json:"content"` // sanitized HTML body
	Excerpt     string      `json:"excerpt,omitempty"`
	CoverImage  string      `json:"cover_image,omitempty"` // object storage key
	ArticleType ArticleType `json:"article_type"`
}

// SessionType categorizes recorded station sessions.
type SessionType string

const (
	SessionLive      SessionType = "live"
	SessionDJSet     SessionType = "dj_set"
	SessionInterview SessionType = "interview"
)

// Session is a live performance, DJ set, or interview session recorded
// at the station.
type Session struct {
	ContentBase
	SessionType SessionType `json:"session_type"`
	Location    string      `json:"location,omitempty"` // e.g. "Robinson Hall"
	VideoURL    string      `json:"video_url,omitempty"`
	AudioURL    string      `json:"audio_url,omitempty"`
	CoverImage  string      `json:"cover_image,omitempty"`
	Content     string      `json:"content,omitempty"`
}

// Platform identifies the streaming service hosting a playlist.
type Platform string

const (
	PlatformSpotify    Platform = "spotify"
	PlatformSoundCloud Platform = "soundcloud"
	PlatformYouTube    Platform = "youtube"
)

// Playlist is a student-curated playlist on an external platform.
// PlatformID and EmbedHTML are derived from PlaylistURL at save time and
// lazily regenerated on read when the cached markup is missing.
type Playlist struct {
	ContentBase
	Platform    Platform `json:"platform"`
	PlaylistURL string   `json:"playlist_url"`
	TrackCount  int      `json:"track_count"`
	Duration    string   `json:"duration,omitempty"`
	CoverColor  string   `json:"cover_color"` // hex swatch for the card mockup
	PlatformID  string   `json:"platform_id,omitempty"`
	EmbedHTML   string   `json:"embed_html,omitempty"`
	CreatorName string   `json:"creator_name,omitempty"`
	Genre       string   `json:"genre,omitempty"`
}

// MediaType categorizes gallery items.
type MediaType string

const (
	MediaPhotography MediaType = "photography"
	MediaArtwork     MediaType = "artwork"
	MediaPoster      MediaType = "poster"
	MediaVideo       MediaType = "video"
)

// Media is a photo, artwork, poster, or video in the gallery.
type Media struct {
	ContentBase
	MediaType  MediaType `json:"media_type"`
	File       string    `json:"file,omitempty"` // object storage key
	FileSize   string    `json:"file_size,omitempty"`
	Dimensions string    `json:"dimensions,omitempty"` // e.g. "1920x1080"
}
