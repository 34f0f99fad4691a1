package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"airwave/internal/storage"
)

const (
	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// Upload handles rich-text image uploads from the editor UI.
type Upload struct {
	storage *storage.Client
}

// NewUpload creates a new Upload handler group.
func NewUpload(storageClient *storage.Client) *Upload {
	return &Upload{storage: storageClient}
}

// EditorImage accepts a multipart image, stores it in the public bucket,
// and returns its URL for embedding. A downscaled thumbnail is generated
// best-effort alongside the original.
func (u *Upload) EditorImage(w http.ResponseWriter, r *http.Request) {
	if u.storage == nil {
		apiError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionUpload+64<<10)
	if err := r.ParseMultipartForm(maxSubmissionUpload); err != nil {
		apiError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 5 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apiError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxSubmissionUpload {
		apiError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 5 MB")
		return
	}

	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		apiError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		apiError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		apiError(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		apiError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	ctx := r.Context()
	key := storage.ObjectKey("uploads", header.Filename)
	if err := u.storage.UploadPublic(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("editor image upload failed", "error", err, "key", key)
		apiError(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	extra := map[string]any{"location": u.storage.FileURL(key)}

	// GIF is skipped to preserve animation.
	if contentType != "image/gif" {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumbData != nil {
			thumbKey := strings.TrimSuffix(key, "."+extOf(key)) + "_thumb.jpg"
			if err := u.storage.UploadPublic(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
			} else {
				extra["thumbnail"] = u.storage.FileURL(thumbKey)
			}
		}
	}

	apiSuccess(w, extra)
}

func extOf(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return ""
}

// generateThumbnail downscales an image to maxWidth, preserving aspect
// ratio. Returns (nil, nil) if the image is already small enough.
func generateThumbnail(src io.ReadSeeker, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without a full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
