// Package server exposes the image store over HTTP.
package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"uimage/internal/config"
	"uimage/internal/storage"
)

//go:embed templates/*
var templates embed.FS

const (
	uploadPath = "/v1/upload"
	imagePath  = "/v1/image/"
	rawPrefix  = "/v1/image/raw/"
)

// Server routes requests to exactly one handler each.
type Server struct {
	cfg    config.Config
	store  *storage.Store
	log    *slog.Logger
	tmpl   *template.Template
	router *mux.Router
}

// handlerFunc is an http.HandlerFunc that reports failure instead of
// writing an error response itself.
type handlerFunc func(http.ResponseWriter, *http.Request) error

func New(cfg config.Config, store *storage.Store, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		log:    logger,
		tmpl:   tmpl,
		router: mux.NewRouter(),
	}

	r := s.router
	r.Use(s.logRequests)

	// Landing Page
	r.Handle("/", s.wrap(s.index)).Methods(http.MethodGet)

	// Upload
	r.Handle(uploadPath, s.wrap(s.upload)).Methods(http.MethodPost)

	// Raw files; registered before the wrapped view so "raw" is never taken for an id
	r.PathPrefix(rawPrefix).Handler(s.wrap(s.raw)).Methods(http.MethodGet, http.MethodHead)

	// Wrapped view
	r.Handle(imagePath+"{id}", s.wrap(s.image)).Methods(http.MethodGet)

	notFound := s.wrap(func(http.ResponseWriter, *http.Request) error { return ErrNotFound })
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns a listener-ready http.Server for s.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

func (s *Server) wrap(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.writeRejection(w, r, err)
		}
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}
