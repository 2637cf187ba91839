package server

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
)

// ClientPath is the URL of the thin client script.
const ClientPath = "/_sitekit/client.js"

//go:embed client.js
var clientJS []byte

var clientETag = func() string {
	sum := sha256.Sum256(clientJS)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}()

func (s *Server) serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(clientJS)
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// clientTag is the script element that boots the client for session id.
func clientTag(id string) string {
	return `<script src="` + ClientPath + `" data-session="` + id + `" defer></script>`
}

// injectClient inserts the client script before </head>, or appends it
// when the document has no head end tag.
func injectClient(doc, id string) string {
	tag := clientTag(id)
	if i := strings.Index(doc, "</head>"); i >= 0 {
		return doc[:i] + tag + doc[i:]
	}
	return doc + tag
}
