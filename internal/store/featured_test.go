package store

import (
	"testing"

	"airwave/internal/models"
)

func TestFeaturedToggleLaw(t *testing.T) {
	db := testDB(t)
	s := NewFeaturedStore(db)
	editor := testEditor(t, db)

	const objectID = 987_654_321 // synthetic id; the side table has no FK on object_id
	t.Cleanup(func() {
		if err := s.Delete(models.KindPlaylist, objectID); err != nil {
			t.Logf("cleanup: %v", err)
		}
	})

	// First toggle creates the row featured with priority 1.
	featured, err := s.Toggle(models.KindPlaylist, objectID, editor)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !featured {
		t.Error("first toggle: expected featured=true")
	}

	row, err := s.Find(models.KindPlaylist, objectID)
	if err != nil || row == nil {
		t.Fatalf("Find: %v %v", row, err)
	}
	if row.Priority != 1 {
		t.Errorf("priority: got %d, want 1", row.Priority)
	}

	// Second flips off, third flips back on.
	if featured, err = s.Toggle(models.KindPlaylist, objectID, editor); err != nil || featured {
		t.Fatalf("second toggle: featured=%v err=%v, want false", featured, err)
	}
	if featured, err = s.Toggle(models.KindPlaylist, objectID, editor); err != nil || !featured {
		t.Fatalf("third toggle: featured=%v err=%v, want true", featured, err)
	}
}

func TestFeaturedKindsAreIndependent(t *testing.T) {
	db := testDB(t)
	s := NewFeaturedStore(db)
	editor := testEditor(t, db)

	const objectID = 987_654_322
	t.Cleanup(func() {
		s.Delete(models.KindArticle, objectID)
		s.Delete(models.KindMedia, objectID)
	})

	if _, err := s.Toggle(models.KindArticle, objectID, editor); err != nil {
		t.Fatalf("toggle article: %v", err)
	}
	if _, err := s.Toggle(models.KindMedia, objectID, editor); err != nil {
		t.Fatalf("toggle media: %v", err)
	}

	a, err := s.Find(models.KindArticle, objectID)
	if err != nil || a == nil || !a.FeaturedOnHomepage {
		t.Fatalf("article row: %+v %v", a, err)
	}
	m, err := s.Find(models.KindMedia, objectID)
	if err != nil || m == nil || !m.FeaturedOnHomepage {
		t.Fatalf("media row: %+v %v", m, err)
	}
}
