// Package static holds the assets served under /static.
package static

import (
	"embed"
	"io/fs"
	"mime"
	"path/filepath"
)

//go:embed index.css favicon.png
var assets embed.FS

// Get returns an asset's bytes and content type, or (nil, "") when no
// such asset is bundled.
func Get(path string) ([]byte, string) {
	data, err := fs.ReadFile(assets, path)
	if err != nil {
		return nil, ""
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType
}
