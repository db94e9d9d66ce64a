package httpserver

import (
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StaticOptions configures the static file handler.
type StaticOptions struct {
	// Dir is the directory served.
	Dir string

	// Prefix is the URL prefix stripped before lookup, e.g. "/static/".
	Prefix string

	// MaxAge is the Cache-Control max-age of unfingerprinted files. Zero
	// sends no caching headers.
	MaxAge time.Duration

	// NoCache disables caching entirely, for development.
	NoCache bool
}

// staticHandler serves files from a directory without listings.
type staticHandler struct {
	fsys fs.FS
	opts StaticOptions
}

// Static returns a handler serving opts.Dir under opts.Prefix.
func Static(opts StaticOptions) http.Handler {
	if opts.Prefix == "" {
		opts.Prefix = "/"
	}
	if !strings.HasSuffix(opts.Prefix, "/") {
		opts.Prefix += "/"
	}
	return &staticHandler{fsys: os.DirFS(opts.Dir), opts: opts}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := staticRelPath(h.opts.Prefix, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := h.fsys.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.cacheHeaders(w, rel)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, rel, info.ModTime(), rs)
}

func (h *staticHandler) cacheHeaders(w http.ResponseWriter, rel string) {
	switch {
	case h.opts.NoCache:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case isFingerprinted(rel):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case h.opts.MaxAge > 0:
		secs := int64(h.opts.MaxAge / time.Second)
		w.Header().Set("Cache-Control", "public, max-age="+strconv.FormatInt(secs, 10)+", must-revalidate")
	}
}

// staticRelPath strips prefix and returns a clean relative path, rejecting
// anything that could leave the static directory.
func staticRelPath(prefix, urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, prefix)
	if rel == "" {
		return "", false
	}

	// NUL can arrive as %00; backslashes are separators on Windows.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// "/static//etc/passwd" leaves "/etc/passwd".
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot segments are rejected before cleaning so traversal is not
	// silently normalized into a different file.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	if !fs.ValidPath(clean) {
		return "", false
	}
	return clean, true
}

// isFingerprinted reports whether the name carries a content hash, e.g.
// "site.a1b2c3d4.css".
func isFingerprinted(p string) bool {
	parts := strings.Split(path.Base(p), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
