package models

import (
	"time"

	"github.com/google/uuid"
)

// HomepageConfigID is the fixed primary key of the homepage configuration
// singleton. The row is created once at startup, never lazily in handlers.
const HomepageConfigID = 1

// Default section layout and counts used when the singleton is first created.
var DefaultSectionsOrder = []string{"featured", "sessions", "playlists"}

const (
	DefaultSessionsCount      = 3
	DefaultPlaylistsCount     = 3
	DefaultFeaturedButtonText = "Read Full Interview"
)

// HomepageConfig controls which sections appear on the landing page and
// how the featured slot is presented. Exactly one row exists.
type HomepageConfig struct {
	ID int `json:"id"`

	// Featured slot. The featured article must be published; the override
	// fields replace its title/description/image when set.
	FeaturedArticleID   *int64 `json:"featured_article_id,omitempty"`
	FeaturedTitle       string `json:"featured_title,omitempty"`
	FeaturedDescription string `json:"featured_description,omitempty"`
	FeaturedButtonText  string `json:"featured_button_text"`
	FeaturedImage       string `json:"featured_image,omitempty"` // object storage key

	ShowFeaturedSection  bool `json:"show_featured_section"`
	ShowSessionsSection  bool `json:"show_sessions_section"`
	ShowPlaylistsSection bool `json:"show_playlists_section"`

	SessionsCount  int `json:"sessions_count"`
	PlaylistsCount int `json:"playlists_count"`

	// SectionsOrder declares the render order of homepage sections,
	// e.g. ["featured", "sessions", "playlists"].
	SectionsOrder []string `json:"sections_order"`

	HeroTitle    string `json:"hero_title,omitempty"`
	HeroSubtitle string `json:"hero_subtitle,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

// FeaturedContent marks a content item for homepage prominence.
// One row per (kind, object id) pair; the feature endpoint creates the row
// as featured on first call and flips the boolean on subsequent calls.
type FeaturedContent struct {
	ID   int64 `json:"id"`
	Kind Kind  `json:"kind"`
	// ObjectID references a row in the table that Kind selects.
	ObjectID int64 `json:"object_id"`

	FeaturedOnHomepage bool `json:"featured_on_homepage"`
	FeaturedInSection  bool `json:"featured_in_section"`
	// Priority breaks ties in listings: higher numbers appear first,
	// then most recently featured.
	Priority int `json:"priority"`

	FeaturedAt time.Time  `json:"featured_at"`
	FeaturedBy *uuid.UUID `json:"featured_by,omitempty"`
}
