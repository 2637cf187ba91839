package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/page"
)

// resolvePage maps a request path to an HTML file under the pages
// directory. Names without an extension resolve to name.html.
func (s *Server) resolvePage(name string) (string, error) {
	if name == "" || name == "/" {
		name = s.config.HomePage
	}
	clean := path.Clean("/" + name)
	if path.Ext(clean) == "" {
		clean += ".html"
	}
	if path.Ext(clean) != ".html" {
		return "", errors.New("E300").WithDetail(name + " is not an HTML page")
	}

	file := filepath.Join(s.config.PagesDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", errors.New("E300").WithDetail("No page " + clean + " in " + s.config.PagesDir)
	}
	return file, nil
}

// openPage parses file into a page controller served under urlPath.
func (s *Server) openPage(file, urlPath string) (*page.Page, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.New("E300").Wrap(err)
	}
	defer f.Close()

	opts := []page.Option{
		page.WithPath(urlPath),
		page.WithCatalog(s.config.Catalog),
		page.WithMetrics(s.config.Metrics),
		page.WithLogger(s.logger.With("component", "page")),
	}
	opts = append(opts, s.config.PageOptions...)
	return page.Load(f, s.config.Clock, opts...)
}

// handlePage serves "/" and "/{page}". Non-HTML names fall through to the
// static file server.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if ext := path.Ext(name); ext != "" && ext != ".html" {
		s.static.ServeHTTP(w, r)
		return
	}

	file, err := s.resolvePage(name)
	if err != nil {
		if name != "" && path.Ext(name) == "" {
			s.static.ServeHTTP(w, r)
			return
		}
		s.logger.Debug("page not found", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	p, err := s.openPage(file, r.URL.Path)
	if err != nil {
		s.logger.Error("page load failed", "file", file, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := s.sessions.Create(p)
	body := injectClient(p.HTML(), sess.ID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("<!DOCTYPE html>" + strings.TrimPrefix(body, "<!DOCTYPE html>")))
}
