package handlers

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"

	"airwave/internal/models"
	"airwave/internal/render"
	"airwave/internal/storage"
	"airwave/internal/store"
)

// maxSubmissionUpload caps contributor file attachments at 5 MB.
const maxSubmissionUpload = 5 << 20

// allowedImageTypes lists the sniffed content types accepted for image
// uploads, both contributor attachments and editor uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Submit handles the public contributor intake form.
type Submit struct {
	renderer      *render.Renderer
	submissions   *store.SubmissionStore
	storageClient *storage.Client
}

// NewSubmit creates a new Submit handler group. storageClient may be nil;
// file attachments are then rejected with a friendly message.
func NewSubmit(renderer *render.Renderer, submissions *store.SubmissionStore, storageClient *storage.Client) *Submit {
	return &Submit{
		renderer:      renderer,
		submissions:   submissions,
		storageClient: storageClient,
	}
}

// Form renders the submission form.
func (s *Submit) Form(w http.ResponseWriter, r *http.Request) {
	s.renderer.Page(w, r, "site/submit", &render.PageData{
		Title:   "Submit",
		Section: "submit",
		Data:    map[string]any{"Form": &models.Submission{}},
	})
}

// Create processes a contributor submission. On validation failure the
// form re-renders with the contributor's input preserved.
func (s *Submit) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionUpload+64<<10)
	if err := r.ParseMultipartForm(maxSubmissionUpload); err != nil {
		s.renderForm(w, r, &models.Submission{}, []string{"Attachment too large. Maximum size is 5 MB."})
		return
	}

	sub := &models.Submission{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		AuthorName:      r.FormValue("author_name"),
		AuthorEmail:     r.FormValue("author_email"),
		AuthorClassYear: r.FormValue("author_class_year"),
		ContentType:     r.FormValue("content_type"),
		ContentText:     r.FormValue("content_text"),
		PlaylistURL:     r.FormValue("playlist_url"),
		Platform:        r.FormValue("platform"),
	}

	errs := validateSubmission(sub)

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		key, uploadErr := s.storeAttachment(r, file, header.Filename, header.Size)
		if uploadErr != "" {
			errs = append(errs, uploadErr)
		} else {
			sub.File = key
			sub.FileSize, sub.Dimensions = attachmentMeta(file, header.Size)
		}
	}

	if len(errs) > 0 {
		s.renderForm(w, r, sub, errs)
		return
	}

	created, err := s.submissions.Create(sub)
	if err != nil {
		slog.Error("submission create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("submission received", "id", created.ID, "type", created.ContentType)

	s.renderer.Page(w, r, "site/submit", &render.PageData{
		Title:   "Submit",
		Section: "submit",
		Data:    map[string]any{"Form": &models.Submission{}, "Submitted": true},
	})
}

// storeAttachment sniffs, validates, and uploads a contributor file to
// the private bucket. Returns the storage key, or an error message for
// the form.
func (s *Submit) storeAttachment(r *http.Request, file io.ReadSeeker, filename string, size int64) (key, errMsg string) {
	if s.storageClient == nil {
		return "", "File uploads are temporarily unavailable."
	}
	if size > maxSubmissionUpload {
		return "", "Attachment too large. Maximum size is 5 MB."
	}

	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return "", "Could not read the attached file."
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		return "", "Attachments must be JPEG, PNG, GIF, or WebP images."
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", "Could not read the attached file."
	}

	key = storage.ObjectKey("submissions", filename)
	if err := s.storageClient.UploadSubmission(r.Context(), key, contentType, file, size); err != nil {
		slog.Error("submission attachment upload failed", "error", err, "key", key)
		return "", "Could not store the attached file. Try again."
	}
	return key, ""
}

// attachmentMeta derives the display metadata stored alongside an image
// attachment: a human readable size and the pixel dimensions. Dimensions
// come out empty when the image header cannot be decoded.
func attachmentMeta(file io.ReadSeeker, size int64) (sizeStr, dims string) {
	sizeStr = formatFileSize(size)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return sizeStr, ""
	}
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return sizeStr, ""
	}
	return sizeStr, fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}

// formatFileSize renders a byte count the way the gallery displays it.
func formatFileSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func (s *Submit) renderForm(w http.ResponseWriter, r *http.Request, sub *models.Submission, errs []string) {
	s.renderer.Page(w, r, "site/submit", &render.PageData{
		Title:   "Submit",
		Section: "submit",
		Data:    map[string]any{"Form": sub, "Errors": errs},
	})
}
