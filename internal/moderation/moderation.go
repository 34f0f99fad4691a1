// Package moderation turns approved contributor submissions into published
// content entities. A submission carries a contributor-declared content type
// tag; approval dispatches on that tag to decide which entity table the work
// lands in. Rejection only flips the review flags.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"airwave/internal/models"
	"airwave/internal/storage"
	"airwave/internal/store"
)

// ErrAlreadyReviewed is returned when approve or reject hits a submission
// that has already been through review. Concurrent reviews can still slip
// past this check; the check is a convenience, not a lock.
var ErrAlreadyReviewed = errors.New("submission already reviewed")

// FilePromoter moves an approved attachment from the private review bucket
// into the public bucket. *storage.Client implements it; nil means object
// storage is not configured and attachment keys pass through untouched.
type FilePromoter interface {
	Promote(ctx context.Context, privateKey, publicKey string) error
}

// Result describes the entity created by an approval.
type Result struct {
	Kind models.Kind
	ID   int64
}

// Service coordinates submission review against the content stores.
type Service struct {
	submissions *store.SubmissionStore
	contents    *store.Contents
	files       FilePromoter
	log         *slog.Logger
}

// NewService creates a moderation service. files may be nil when object
// storage is disabled.
func NewService(submissions *store.SubmissionStore, contents *store.Contents, files FilePromoter, log *slog.Logger) *Service {
	return &Service{submissions: submissions, contents: contents, files: files, log: log}
}

// Approve creates a published entity from the submission and marks it
// reviewed and approved. The entity kind follows the contributor's declared
// content type; unrecognized tags fall back to an article so no approved
// work is ever dropped.
func (s *Service) Approve(ctx context.Context, id int64) (*Result, error) {
	sub, err := s.submissions.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", id, err)
	}
	if sub == nil {
		return nil, store.ErrNotFound
	}
	if sub.Reviewed {
		return nil, ErrAlreadyReviewed
	}

	result, err := s.publish(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("publish submission %d: %w", id, err)
	}

	if err := s.submissions.MarkReviewed(id, true); err != nil {
		// The entity exists but the submission still shows in the queue.
		// Surface the error so the editor retries; re-approval is blocked
		// only after the flags land.
		return nil, fmt.Errorf("mark submission %d approved: %w", id, err)
	}

	s.log.Info("submission approved",
		"submission_id", id, "kind", result.Kind, "content_id", result.ID)
	return result, nil
}

// Reject marks the submission reviewed without creating anything.
func (s *Service) Reject(ctx context.Context, id int64) error {
	sub, err := s.submissions.FindByID(id)
	if err != nil {
		return fmt.Errorf("load submission %d: %w", id, err)
	}
	if sub == nil {
		return store.ErrNotFound
	}
	if sub.Reviewed {
		return ErrAlreadyReviewed
	}
	if err := s.submissions.MarkReviewed(id, false); err != nil {
		return fmt.Errorf("mark submission %d rejected: %w", id, err)
	}
	s.log.Info("submission rejected", "submission_id", id)
	return nil
}

// publish creates the entity for an approved submission. Contributor text
// is stored verbatim; sanitization happens at render time.
func (s *Service) publish(ctx context.Context, sub *models.Submission) (*Result, error) {
	base := models.ContentBase{
		Title:           sub.Title,
		Description:     sub.Description,
		AuthorName:      sub.AuthorName,
		AuthorEmail:     sub.AuthorEmail,
		AuthorClassYear: sub.AuthorClassYear,
		ContentType:     sub.ContentType,
		Status:          models.StatusPublished,
	}

	switch sub.ContentType {
	case "playlist":
		p, err := s.contents.Playlists.Create(&models.Playlist{
			ContentBase: base,
			Platform:    models.Platform(sub.Platform),
			PlaylistURL: sub.PlaylistURL,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Kind: models.KindPlaylist, ID: p.ID}, nil

	case "session", "interview":
		kind := models.SessionLive
		if sub.ContentType == "interview" {
			kind = models.SessionInterview
		}
		sess, err := s.contents.Sessions.Create(&models.Session{
			ContentBase: base,
			SessionType: kind,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Kind: models.KindSession, ID: sess.ID}, nil

	case "artwork", "photography", "media":
		mediaType := models.MediaArtwork
		if sub.ContentType == "photography" {
			mediaType = models.MediaPhotography
		}
		file, err := s.promoteAttachment(ctx, sub.File)
		if err != nil {
			return nil, err
		}
		m, err := s.contents.Media.Create(&models.Media{
			ContentBase: base,
			MediaType:   mediaType,
			File:        file,
			FileSize:    sub.FileSize,
			Dimensions:  sub.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Kind: models.KindMedia, ID: m.ID}, nil

	default:
		// "article" and anything unrecognized land here. An empty body
		// falls back to the description so the piece is never blank.
		body := sub.ContentText
		if body == "" {
			body = sub.Description
		}
		art, err := s.contents.Articles.Create(&models.Article{
			ContentBase: base,
			Content:     body,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Kind: models.KindArticle, ID: art.ID}, nil
	}
}

// promoteAttachment copies the submission attachment into the public
// bucket so the gallery can serve it directly. Without storage the key
// passes through unchanged.
func (s *Service) promoteAttachment(ctx context.Context, privateKey string) (string, error) {
	if privateKey == "" || s.files == nil {
		return privateKey, nil
	}
	publicKey := storage.ObjectKey("media", privateKey)
	if err := s.files.Promote(ctx, privateKey, publicKey); err != nil {
		return "", fmt.Errorf("promote attachment %s: %w", privateKey, err)
	}
	return publicKey, nil
}
