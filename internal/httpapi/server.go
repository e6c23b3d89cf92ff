// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

// Package httpapi exposes the account service over HTTP. Handlers
// translate requests into service calls and service error codes into
// status codes; all state lives behind the service layer.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
	"github.com/rosterd/rosterd/internal/observability"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth     *account.AuthService
	Users    *account.UserService
	Sessions *account.SessionService
	// SessionStore backs the session guard.
	SessionStore account.SessionRepository
}

// NewRouter assembles the full route table. metrics may be nil when
// the observability server is disabled.
func NewRouter(svc Services, metrics *observability.Metrics) (chi.Router, error) {
	authHandler, err := NewAuthHandler(svc.Auth, metrics)
	if err != nil {
		return nil, err
	}
	usersHandler, err := NewUsersHandler(svc.Users)
	if err != nil {
		return nil, err
	}
	sessionsHandler, err := NewSessionsHandler(svc.Sessions, svc.Users, metrics)
	if err != nil {
		return nil, err
	}
	guard, err := NewSessionGuard(svc.SessionStore)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if metrics != nil {
		r.Use(requestMetrics(metrics))
	}

	r.Get("/health", Health)

	r.Post("/auth/signup", authHandler.SignUp)
	r.Post("/auth/signin", authHandler.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware)

		r.Post("/users", usersHandler.Create)
		r.Get("/users", usersHandler.List)
		r.Patch("/users/{id}", usersHandler.Update)
		r.Delete("/users/{id}", usersHandler.Delete)

		r.Get("/sessions/me", sessionsHandler.Me)
		r.Patch("/sessions/{id}/terminate", sessionsHandler.Terminate)
	})

	return r, nil
}

// Server runs the HTTP API on its own listener with graceful shutdown.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer wraps the given handler in a managed HTTP server.
func NewServer(addr string, handler http.Handler) (*Server, error) {
	if addr == "" {
		return nil, oops.Errorf("listen address is required")
	}
	if handler == nil {
		return nil, oops.Errorf("handler is required")
	}
	return &Server{addr: addr, handler: handler}, nil
}

// Start begins serving. It returns an error channel that receives any
// serve error; the channel is closed on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("http server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("http server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("http server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_http_server").Wrap(err)
		}
	}

	slog.Info("http server stopped")
	return nil
}

// Addr returns the address the server is listening on. Empty when not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
