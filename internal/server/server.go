// Package server exposes a document store over HTTP for remote clients:
// JSON endpoints for projects and task creation, and a WebSocket feed of
// task snapshots.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/logging"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:7766"

// Config holds server configuration.
type Config struct {
	Addr       string
	Token      string // bearer token; empty disables auth
	Metrics    bool   // expose /metrics
	RequestLog bool
}

// Server serves a gateway over HTTP.
type Server struct {
	config  Config
	gateway api.Gateway
	router  chi.Router
	addr    string
}

// New creates a server for gw.
func New(gw api.Gateway, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{config: cfg, gateway: gw, addr: cfg.Addr}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if s.config.RequestLog {
		r.Use(middleware.Logger)
	}

	if s.config.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.config.Token != "" {
				r.Use(bearerAuth(s.config.Token))
			} else {
				logging.Log.Warn("document server running without authentication")
			}

			r.Get("/projects", s.handleFetchProjects)
			r.Post("/projects", s.handleCreateProject)
			r.Delete("/projects/{docID}", s.handleDeleteProject)
			r.Post("/tasks", s.handleCreateTask)
			r.Get("/tasks/subscribe", s.handleSubscribeTasks)
		})
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address, resolved after ListenAndServe binds.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.addr = ln.Addr().String()
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.Log.Info("document server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// bearerAuth rejects requests whose bearer token does not match, comparing
// in constant time.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="todolist"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}

			const prefix = "Bearer "
			if len(auth) < len(prefix) || auth[:len(prefix)] != prefix {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
				return
			}

			if subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				logging.Log.Info("authentication failed", "remote", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
