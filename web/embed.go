package web

import (
	"embed"
	"io/fs"
)

// StaticFiles embeds the web client (web/dist) into the Go binary so the
// application serves its frontend without external assets.
//
//go:embed all:dist
var staticFS embed.FS

// FS returns the embedded filesystem containing the frontend static files.
func FS() (fs.FS, error) {
	return fs.Sub(staticFS, "dist")
}
