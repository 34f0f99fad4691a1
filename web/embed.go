// Package web provides the embedded static assets (CSS, JS) served at
// /static/ for both the public site and the editor interface.
package web

import "embed"

// Static embeds the web/static/ directory tree.
//
//go:embed all:static
var Static embed.FS
