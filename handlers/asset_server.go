package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// AssetServer serves files from fsys for requests under routePrefix.
// example usage:
//
//	r.Get("/static/*", AssetServer(staticFS, "/static/"))
//
// where staticFS is rooted at the directory holding css/ and js/.
func AssetServer(fsys fs.FS, routePrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}
		cleaned := path.Clean(relativePath)
		if !fs.ValidPath(cleaned) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		info, err := fs.Stat(fsys, cleaned)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFileFS(w, r, fsys, cleaned)
	}
}
