package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"image-drop/internal/storage"
)

// Server owns the HTTP listener and the route table. Handlers hang off it
// so they can reach the store and the auth gate without globals.
type Server struct {
	cfg        Config
	auth       AuthConfig
	store      *storage.Store
	httpServer *http.Server
	start      time.Time
}

// New wires the routes and middleware for the given config and store.
// In read-only mode only health, list, metrics, and static serving are
// registered; the mutating surface does not exist.
func New(cfg Config, store *storage.Store) *Server {
	s := &Server{
		cfg:   cfg,
		auth:  AuthConfig{Required: cfg.RequireAuth, Key: cfg.AuthKey},
		store: store,
		start: time.Now(),
	}

	mux := http.NewServeMux()
	mux.Handle("/health", s.healthHandler())
	mux.Handle("/list", s.listHandler())
	mux.Handle("/metrics", NewPrometheusExporter(cfg.Version).Handler())

	if !cfg.ReadOnly {
		mux.Handle("/auth/check", s.auth.checkHandler())
		mux.Handle("/upload", s.uploadHandler())
		mux.Handle("/upload-multiple", s.uploadMultipleHandler())
		mux.Handle("/delete/", s.deleteHandler())
	}

	// Catch-all: index page and static file serving.
	mux.Handle("/", s.staticHandler())

	// Wrap middleware: requestID -> logging -> cors -> mux
	var handler http.Handler = mux
	handler = corsMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
