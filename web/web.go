// Package web embeds the single-page screenshot client.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves the embedded page and its assets from the site root.
func Handler() http.Handler {
	// static is embedded at build time, so the sub tree always exists.
	sub, _ := fs.Sub(static, "static")
	return http.FileServer(http.FS(sub))
}
