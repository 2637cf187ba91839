package server

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// staticHandler serves the non-page files of the pages directory.
type staticHandler struct {
	root http.FileSystem
}

// staticRelPath returns a sanitized path relative to the pages directory.
// It rejects traversal, absolute paths and dotfiles.
func staticRelPath(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		return ".", true
	}

	// %00 and backslashes never name a file we serve.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading "/" after trimming means "//etc/passwd" style requests.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	for _, seg := range strings.Split(strings.TrimSuffix(rel, "/"), "/") {
		if seg == "." || seg == ".." || strings.HasPrefix(seg, ".") {
			return "", false
		}
	}

	clean := path.Clean(rel)
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := h.root.Open("/" + rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Directories are served through their index.html only.
	if info.IsDir() {
		index, err := h.root.Open(path.Join("/", rel, "index.html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer index.Close()
		if info, err = index.Stat(); err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		f, rel = index, path.Join(rel, "index.html")
	}

	applyCacheHeaders(w, rel)
	http.ServeContent(w, r, rel, info.ModTime(), f)
}

// applyCacheHeaders marks fingerprinted assets immutable and everything
// else revalidated hourly.
func applyCacheHeaders(w http.ResponseWriter, file string) {
	if isFingerprinted(file) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
}

// isFingerprinted reports whether file carries a content hash, as in
// "app.a1b2c3d4.css".
func isFingerprinted(file string) bool {
	parts := strings.Split(path.Base(file), ".")
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
