// Package store provides database access methods for all airwave entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import "errors"

// ErrNotFound is returned by mutation methods whose target row does not
// exist. Lookup methods return (nil, nil) instead, following the same
// convention as the rest of the store layer.
var ErrNotFound = errors.New("store: not found")

// displayOrder sorts listings the way public pages show them: manually
// backdated items first, then by publication, then by creation.
const displayOrder = "custom_publication_date DESC NULLS LAST, published_at DESC NULLS LAST, created_at DESC"

// rowScanner is satisfied by both *sql.Row and *sql.Rows, letting each
// entity define a single scan function for lookups and listings.
type rowScanner interface {
	Scan(dest ...any) error
}
