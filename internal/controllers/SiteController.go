package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"plantao/internal/providers"
	"plantao/internal/structures"
	"strings"
)

const (
	indexPage   = "index.html"
	faviconPath = "/favicon.ico"
)

// SiteController serves the static front-end from a single directory.
type SiteController struct {
	logger providers.Logger
	root   string
}

// NewSiteController fails when the directory has no index page, since the
// host is useless without it.
func NewSiteController(conf *structures.Config, logger providers.Logger) (*SiteController, error) {
	root, err := filepath.Abs(conf.Site.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve site dir: %w", err)
	}
	info, err := os.Stat(filepath.Join(root, indexPage))
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s not found in site dir %s", indexPage, root)
	}
	return &SiteController{logger: logger, root: root}, nil
}

func (sc *SiteController) Root() string {
	return sc.root
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func (sc *SiteController) Serve(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Path
	if name == "" || name == "/" {
		name = "/" + indexPage
	}

	file, ok := sc.resolve(name)
	if !ok {
		if r.URL.Path == faviconPath {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
		return
	}
	sc.serveFile(w, r, file)
}

// resolve maps a URL path to a regular file under root.
func (sc *SiteController) resolve(urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	target := filepath.Join(sc.root, filepath.FromSlash(cleaned))

	rel, err := filepath.Rel(sc.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return target, true
}

func (sc *SiteController) serveFile(w http.ResponseWriter, r *http.Request, file string) {
	f, err := os.Open(file)
	if err != nil {
		sc.logger.Warnf(providers.TypeRead, "Open %s: %s", file, err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
