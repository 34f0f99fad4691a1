package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"airwave/internal/models"
)

// Validation limits for contributor and editor form fields.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
	maxBodyLen        = 100_000
	maxAuthorNameLen  = 100
	maxEmailLen       = 200
	maxClassYearLen   = 10
	maxURLLen         = 500
)

// validateSubmission checks the intake form and returns every problem
// found, so contributors can fix the whole form in one pass.
func validateSubmission(sub *models.Submission) []string {
	var errs []string

	sub.Title = strings.TrimSpace(sub.Title)
	if sub.Title == "" {
		errs = append(errs, "Title is required.")
	} else if utf8.RuneCountInString(sub.Title) > maxTitleLen {
		errs = append(errs, "Title is too long (max 200 characters).")
	}

	if !models.ValidSubmissionType(sub.ContentType) {
		errs = append(errs, "Pick what you are submitting.")
	}

	if utf8.RuneCountInString(sub.Description) > maxDescriptionLen {
		errs = append(errs, "Description is too long (max 500 characters).")
	}
	if utf8.RuneCountInString(sub.ContentText) > maxBodyLen {
		errs = append(errs, "Text is too long (max 100,000 characters).")
	}

	sub.AuthorName = strings.TrimSpace(sub.AuthorName)
	if sub.AuthorName == "" {
		errs = append(errs, "Your name is required.")
	} else if utf8.RuneCountInString(sub.AuthorName) > maxAuthorNameLen {
		errs = append(errs, "Name is too long (max 100 characters).")
	}

	sub.AuthorEmail = strings.TrimSpace(sub.AuthorEmail)
	if sub.AuthorEmail == "" {
		errs = append(errs, "Your email is required.")
	} else if utf8.RuneCountInString(sub.AuthorEmail) > maxEmailLen {
		errs = append(errs, "Email is too long (max 200 characters).")
	} else if _, err := mail.ParseAddress(sub.AuthorEmail); err != nil {
		errs = append(errs, "Email does not look valid.")
	}

	if utf8.RuneCountInString(sub.AuthorClassYear) > maxClassYearLen {
		errs = append(errs, "Class year is too long.")
	}

	if sub.ContentType == "playlist" {
		if sub.PlaylistURL == "" {
			errs = append(errs, "Playlist submissions need a playlist URL.")
		} else if utf8.RuneCountInString(sub.PlaylistURL) > maxURLLen {
			errs = append(errs, "Playlist URL is too long.")
		}
	}

	return errs
}

// validateContentEdit checks the editor's content edit form.
func validateContentEdit(title, description, status string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 500 characters)."
	}
	if !models.ValidStatus(models.Status(status)) {
		return "Unknown status."
	}
	return ""
}
