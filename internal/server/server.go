package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sarmini1/messagely/internal/auth"
	"github.com/sarmini1/messagely/internal/config"
	"github.com/sarmini1/messagely/internal/http/handlers"
	"github.com/sarmini1/messagely/internal/middleware"
	"github.com/sarmini1/messagely/internal/storage"
	"github.com/sarmini1/messagely/internal/users"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, userStore storage.UserStore, messageStore storage.MessageStore) *Server {
	mux := http.NewServeMux()
	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	svc := users.NewService(userStore, messageStore, hasher)

	handlers.NewAuthHandler(svc, tokens).Register(mux)
	handlers.NewUserHandler(svc, tokens).Register(mux)
	handlers.NewMessageHandler(svc, tokens).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
