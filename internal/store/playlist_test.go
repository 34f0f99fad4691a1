package store

import (
	"strings"
	"testing"

	"airwave/internal/models"
	"airwave/internal/musicembed"
)

func TestPlaylistStoreDerivesEmbedOnCreate(t *testing.T) {
	db := testDB(t)
	s := NewPlaylistStore(db, musicembed.URLDeriver{})
	t.Cleanup(func() { cleanTables(t, db, "t-playlist-derive") })

	p, err := s.Create(&models.Playlist{
		ContentBase: models.ContentBase{
			Title:  "t-playlist-derive",
			Status: models.StatusPublished,
		},
		Platform:    models.PlatformSpotify,
		PlaylistURL: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if p.PlatformID != "37i9dQZF1DXcBWIGoYBM5M" {
		t.Errorf("platform_id: got %q", p.PlatformID)
	}
	if !strings.Contains(p.EmbedHTML, "open.spotify.com/embed/playlist/") {
		t.Errorf("embed_html not derived: %q", p.EmbedHTML)
	}
	if p.PlaylistURL != "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M" {
		t.Errorf("playlist_url mutated: %q", p.PlaylistURL)
	}
}

func TestPlaylistStoreLazyEmbedRegeneration(t *testing.T) {
	db := testDB(t)
	s := NewPlaylistStore(db, musicembed.URLDeriver{})
	t.Cleanup(func() { cleanTables(t, db, "t-playlist-lazy") })

	// Insert a row with no cached embed, bypassing Create's derivation.
	var id int64
	err := db.QueryRow(`
		INSERT INTO playlists (title, status, platform, playlist_url, embed_html)
		VALUES ('t-playlist-lazy', 'published', 'spotify', 'https://open.spotify.com/playlist/abc123', '')
		RETURNING id
	`).Scan(&id)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	p, err := s.FindByID(id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !strings.Contains(p.EmbedHTML, "abc123") {
		t.Errorf("embed not regenerated on read: %q", p.EmbedHTML)
	}

	// The regenerated markup must be persisted.
	var stored string
	if err := db.QueryRow(`SELECT embed_html FROM playlists WHERE id = $1`, id).Scan(&stored); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if stored == "" {
		t.Error("regenerated embed not written back")
	}
}

func TestPlaylistStoreUnrecognizedURLKeepsEmptyEmbed(t *testing.T) {
	db := testDB(t)
	s := NewPlaylistStore(db, musicembed.URLDeriver{})
	t.Cleanup(func() { cleanTables(t, db, "t-playlist-unknown") })

	p, err := s.Create(&models.Playlist{
		ContentBase: models.ContentBase{Title: "t-playlist-unknown", Status: models.StatusPublished},
		Platform:    models.PlatformSpotify,
		PlaylistURL: "https://example.com/not-a-playlist",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.EmbedHTML != "" {
		t.Errorf("embed for unrecognized URL: %q", p.EmbedHTML)
	}
}
