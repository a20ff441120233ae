package public

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/endpoints/utils"
	"github.com/mpapenbr/f1-visual-simulator/version"
	"github.com/mpapenbr/f1-visual-simulator/web"
)

const indexFile = "index.html"

var (
	errNotFound         = errors.New("not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

type (
	PublicManager struct {
		static fs.FS
		l      *log.Logger
	}
	Option func(*PublicManager)

	StatusResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	VersionResponse struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
		Date    string `json:"date"`
	}
)

// WithStaticFS sets the files of the frontend bundle
func WithStaticFS(fsys fs.FS) Option {
	return func(p *PublicManager) {
		p.static = fsys
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *PublicManager) {
		p.l = l
	}
}

func NewPublicManager(opts ...Option) *PublicManager {
	ret := &PublicManager{
		l: log.Default().Named("public"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.static == nil {
		ret.static = web.Placeholder()
	}
	return ret
}

// StaticFS returns the bundle in dir. The embedded placeholder is used
// if dir does not contain an index.html.
func StaticFS(dir string) fs.FS {
	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, indexFile); err != nil {
		log.Warn("no frontend bundle found, serving placeholder",
			log.String("dir", dir), log.ErrorField(err))
		return web.Placeholder()
	}
	return fsys
}

func (p *PublicManager) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", p.status)
	mux.HandleFunc("GET /api/version", p.version)
	// method-less patterns, "GET /" would conflict with "/api/"
	mux.HandleFunc("/api/", p.notFound)
	mux.Handle("/", p.staticHandler())
}

func (p *PublicManager) status(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: "F1 Visual Simulator server running!",
	})
}

func (p *PublicManager) version(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, VersionResponse{
		Version: version.Version,
		Commit:  version.Commit,
		Date:    version.Date,
	})
}

func (p *PublicManager) notFound(w http.ResponseWriter, r *http.Request) {
	p.l.Debug("unknown api path", log.String("path", r.URL.Path))
	utils.WriteError(w, http.StatusNotFound, errNotFound)
}

// staticHandler serves existing files of the bundle. Every other path gets
// the index.html so that client side routing works.
func (p *PublicManager) staticHandler() http.Handler {
	files := http.FileServerFS(p.static)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			utils.WriteError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" && name != indexFile {
			if fi, err := fs.Stat(p.static, name); err == nil && !fi.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFileFS(w, r, p.static, indexFile)
	})
}
