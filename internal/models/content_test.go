package models

import (
	"testing"
	"time"
)

func TestDisplayDatePrecedence(t *testing.T) {
	created := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	published := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	custom := time.Date(1998, 4, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		base ContentBase
		want time.Time
	}{
		{
			name: "custom date overrides everything",
			base: ContentBase{CreatedAt: created, PublishedAt: &published, CustomPublicationDate: &custom},
			want: custom,
		},
		{
			name: "published_at wins over created_at",
			base: ContentBase{CreatedAt: created, PublishedAt: &published},
			want: published,
		},
		{
			name: "created_at as last resort",
			base: ContentBase{CreatedAt: created},
			want: created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.base.DisplayDate(); !got.Equal(tt.want) {
				t.Errorf("DisplayDate: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"article", "session", "playlist", "media"} {
		kind, ok := ParseKind(s)
		if !ok {
			t.Errorf("ParseKind(%q): expected ok", s)
		}
		if string(kind) != s {
			t.Errorf("ParseKind(%q): got %q", s, kind)
		}
	}

	for _, s := range []string{"", "articles", "event", "interview", "Article", "submission"} {
		if _, ok := ParseKind(s); ok {
			t.Errorf("ParseKind(%q): expected rejection", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPublished, StatusArchived, StatusPrivate, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q): expected true", s)
		}
	}
	if ValidStatus("draft") {
		t.Error("ValidStatus(draft): expected false, draft is not in the enumeration")
	}
	if ValidStatus("") {
		t.Error("ValidStatus empty: expected false")
	}
}

func TestIsPublished(t *testing.T) {
	b := ContentBase{Status: StatusPublished}
	if !b.IsPublished() {
		t.Error("expected published")
	}
	b.Status = StatusPrivate
	if b.IsPublished() {
		t.Error("private must not report published")
	}
}

func TestValidSubmissionType(t *testing.T) {
	valid := []string{"article", "session", "interview", "playlist", "photography", "artwork", "media", "event"}
	for _, s := range valid {
		if !ValidSubmissionType(s) {
			t.Errorf("ValidSubmissionType(%q): expected true", s)
		}
	}
	if ValidSubmissionType("podcast") {
		t.Error("unknown type accepted")
	}
}
