package store

import (
	"testing"

	"airwave/internal/models"
)

func TestSubmissionReviewFlagsOnly(t *testing.T) {
	db := testDB(t)
	s := NewSubmissionStore(db)
	cleanTables(t, db, "sub-test")

	sub, err := s.Create(&models.Submission{
		Title:       "sub-test midnight mix",
		Description: "A late night playlist.",
		AuthorName:  "Sam Rivera",
		AuthorEmail: "sam@example.edu",
		ContentType: "playlist",
		PlaylistURL: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
		Platform:    "spotify",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.Reviewed || sub.Approved {
		t.Fatalf("new submission should be unreviewed, got reviewed=%v approved=%v", sub.Reviewed, sub.Approved)
	}

	if err := s.MarkReviewed(sub.ID, true); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}

	got, err := s.FindByID(sub.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID: %v %v", got, err)
	}
	if !got.Reviewed || !got.Approved {
		t.Errorf("flags: got reviewed=%v approved=%v, want both true", got.Reviewed, got.Approved)
	}

	// Review must not touch what the contributor wrote.
	if got.Title != sub.Title || got.PlaylistURL != sub.PlaylistURL || got.AuthorEmail != sub.AuthorEmail {
		t.Errorf("contributor fields changed during review: %+v", got)
	}
}

func TestSubmissionListUnreviewed(t *testing.T) {
	db := testDB(t)
	s := NewSubmissionStore(db)
	cleanTables(t, db, "sub-test")

	pending, err := s.Create(&models.Submission{
		Title:       "sub-test gallery shots",
		AuthorName:  "Alex Kim",
		ContentType: "photography",
		File:        "submissions/gallery.jpg",
	})
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}

	rejected, err := s.Create(&models.Submission{
		Title:       "sub-test spam",
		AuthorName:  "Nobody",
		ContentType: "article",
		ContentText: "Buy now.",
	})
	if err != nil {
		t.Fatalf("create rejected: %v", err)
	}
	if err := s.MarkReviewed(rejected.ID, false); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}

	list, err := s.ListUnreviewed()
	if err != nil {
		t.Fatalf("ListUnreviewed: %v", err)
	}
	var sawPending, sawRejected bool
	for _, sub := range list {
		if sub.ID == pending.ID {
			sawPending = true
		}
		if sub.ID == rejected.ID {
			sawRejected = true
		}
	}
	if !sawPending {
		t.Error("unreviewed submission missing from queue")
	}
	if sawRejected {
		t.Error("reviewed submission still in queue")
	}

	count, err := s.CountUnreviewed()
	if err != nil {
		t.Fatalf("CountUnreviewed: %v", err)
	}
	if count < 1 {
		t.Errorf("CountUnreviewed: got %d, want >= 1", count)
	}
}

func TestSubmissionCountApprovedToday(t *testing.T) {
	db := testDB(t)
	s := NewSubmissionStore(db)
	cleanTables(t, db, "sub-test")

	before, err := s.CountApprovedToday()
	if err != nil {
		t.Fatalf("CountApprovedToday: %v", err)
	}

	sub, err := s.Create(&models.Submission{
		Title:       "sub-test approved today",
		AuthorName:  "Jo March",
		ContentType: "article",
		ContentText: "Copy.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.MarkReviewed(sub.ID, true); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}

	after, err := s.CountApprovedToday()
	if err != nil {
		t.Fatalf("CountApprovedToday: %v", err)
	}
	if after != before+1 {
		t.Errorf("CountApprovedToday: got %d, want %d", after, before+1)
	}
}
