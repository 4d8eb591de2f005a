package httpx

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaHandler serves the built front end from disk. Paths that don't match a
// file fall back to index.html so client-side routes survive a hard reload.
type spaHandler struct {
	dir        string
	fileServer http.Handler
}

// NewSPAHandler returns a handler serving static assets from dir with an
// index.html fallback.
func NewSPAHandler(dir string) http.Handler {
	return &spaHandler{
		dir:        dir,
		fileServer: http.FileServer(http.Dir(dir)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	relPath := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
	if relPath != "" {
		if info, err := os.Stat(filepath.Join(h.dir, relPath)); err == nil && !info.IsDir() {
			h.fileServer.ServeHTTP(w, r)
			return
		}
	}
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}
