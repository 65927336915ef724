package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/session"
	"bookstore/internal/storage"
	"bookstore/internal/user"
)

// application holds everything a running server needs besides the listener.
type application struct {
	router   http.Handler
	sessions *session.Service
	limiter  *httpx.RateLimitMiddleware
}

func newApplication(cfg *config.Config, store *storage.Storage, logger *zap.Logger) *application {
	userService := user.NewService(store.Users)
	sessionService := session.NewService(store.Revocations, logger)
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, userService, sessionService)
	bookService := book.NewService(store.Books, book.WithStaffLookup(userService))

	bookHandler := book.NewHTTPHandler(bookService, logger)
	userHandler := user.NewHTTPHandler(userService, logger)
	authHandler := auth.NewHTTPHandler(authService, logger)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", zap.Error(err))
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("POST /books", bookHandler.Create)
	router.HandleFunc("GET /books/{id}", bookHandler.Get)
	router.HandleFunc("PUT /books/{id}", bookHandler.Update)
	router.HandleFunc("PATCH /books/{id}", bookHandler.Patch)
	router.HandleFunc("DELETE /books/{id}", bookHandler.Delete)

	router.HandleFunc("POST /users/register", userHandler.RegisterUser)
	router.Handle("GET /me", httpx.RequireAuth(http.HandlerFunc(userHandler.GetCurrentUser)))

	router.HandleFunc("POST /auth/login", authHandler.Login)
	router.Handle("POST /auth/logout", httpx.RequireAuth(http.HandlerFunc(authHandler.Logout)))

	if cfg.GitHubEnabled() {
		github := auth.NewGitHubHandler(cfg.Auth.GithubClientID, cfg.Auth.GithubClientSecret,
			cfg.Auth.GithubRedirectURL, authService, userService, logger)
		router.HandleFunc("GET /auth/github/login", github.Login)
		router.HandleFunc("GET /auth/github/callback", github.Callback)
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	authenticator := httpx.NewAuthenticator(cfg.Auth.JWTSecret, sessionService, logger)

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS),
		httpx.CORSMiddleware(cfg.Server.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
		limiter.Middleware,
		authenticator.Authenticate,
	)

	return &application{router: handler, sessions: sessionService, limiter: limiter}
}
