// Package musicembed derives embeddable player markup and platform metadata
// from playlist URLs on Spotify, SoundCloud, and YouTube. Playlist records
// cache the derived values; stores call back into this package when the
// cached markup is missing.
package musicembed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Metadata holds platform details extracted from a playlist URL.
type Metadata struct {
	Platform   string // "spotify", "soundcloud", "youtube"
	PlatformID string // platform-native playlist identifier
	Creator    string // platform username when the URL carries one
}

// Deriver turns a playlist URL into embed markup and metadata. The default
// implementation is regex-based; it can be swapped for one that calls
// platform oEmbed APIs.
type Deriver interface {
	// EmbedHTML returns cached-ready iframe markup for the URL, or
	// ("", false) when the URL is not recognized.
	EmbedHTML(rawURL string) (string, bool)
	// Extract returns platform metadata for the URL, or (zero, false)
	// when the URL is not recognized.
	Extract(rawURL string) (Metadata, bool)
}

// URLDeriver is the default Deriver: pure URL parsing, no network calls.
type URLDeriver struct{}

var (
	spotifyPlaylistRe = regexp.MustCompile(`open\.spotify\.com/playlist/([A-Za-z0-9]+)`)
	soundcloudSetRe   = regexp.MustCompile(`soundcloud\.com/([A-Za-z0-9._-]+)/sets/([A-Za-z0-9._-]+)`)
	youtubeListRe     = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
)

// EmbedHTML implements Deriver.
func (URLDeriver) EmbedHTML(rawURL string) (string, bool) {
	switch {
	case spotifyPlaylistRe.MatchString(rawURL):
		id := spotifyPlaylistRe.FindStringSubmatch(rawURL)[1]
		return fmt.Sprintf(
			`<iframe src="https://open.spotify.com/embed/playlist/%s" width="100%%" height="380" frameborder="0" allow="encrypted-media" loading="lazy"></iframe>`,
			id,
		), true

	case soundcloudSetRe.MatchString(rawURL):
		return fmt.Sprintf(
			`<iframe src="https://w.soundcloud.com/player/?url=%s&color=%%23ff5500&auto_play=false" width="100%%" height="450" frameborder="0" loading="lazy"></iframe>`,
			url.QueryEscape(rawURL),
		), true

	case strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be"):
		m := youtubeListRe.FindStringSubmatch(rawURL)
		if m == nil {
			return "", false
		}
		return fmt.Sprintf(
			`<iframe src="https://www.youtube.com/embed/videoseries?list=%s" width="100%%" height="360" frameborder="0" allowfullscreen loading="lazy"></iframe>`,
			m[1],
		), true
	}
	return "", false
}

// Extract implements Deriver.
func (URLDeriver) Extract(rawURL string) (Metadata, bool) {
	if m := spotifyPlaylistRe.FindStringSubmatch(rawURL); m != nil {
		return Metadata{Platform: "spotify", PlatformID: m[1]}, true
	}
	if m := soundcloudSetRe.FindStringSubmatch(rawURL); m != nil {
		return Metadata{Platform: "soundcloud", PlatformID: m[2], Creator: m[1]}, true
	}
	if strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be") {
		if m := youtubeListRe.FindStringSubmatch(rawURL); m != nil {
			return Metadata{Platform: "youtube", PlatformID: m[1]}, true
		}
	}
	return Metadata{}, false
}
