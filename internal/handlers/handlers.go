// Package handlers implements the HTTP handlers for the public site, the
// editor interface, and the JSON API. Handler groups are plain structs
// wired with their stores; the router mounts them behind the middleware
// chain.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Upload failure modes shared by the editor and curation upload paths.
var (
	errStorageUnavailable = errors.New("object storage is not configured")
	errUploadTooLarge     = errors.New("upload exceeds the 5 MB limit")
	errUploadNotImage     = errors.New("upload is not an accepted image type")
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// apiSuccess writes the uniform success envelope, merging any extra
// fields into it.
func apiSuccess(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// apiError writes the uniform error envelope.
func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// idParam parses the numeric {id} route parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
