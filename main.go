// CineTrack is a self-hosted movie discovery service: browse and search
// movies from the external metadata provider, keep a per-user watchlist,
// write reviews, and maintain a single durable session. All user data
// lives in an external json-server style CRUD store.
//
// This file wires configuration, clients, services and handlers together,
// sets up the router and middleware, and runs the server with graceful
// shutdown.
//
// @title CineTrack API
// @version 1.0
// @description Movie discovery service with watchlist, reviews and a single durable session.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/cache"
	"github.com/user/cinetrack-go/config"
	_ "github.com/user/cinetrack-go/docs" // Generated Swagger docs
	"github.com/user/cinetrack-go/events"
	"github.com/user/cinetrack-go/movies"
	"github.com/user/cinetrack-go/reviews"
	"github.com/user/cinetrack-go/session"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/tmdb"
	"github.com/user/cinetrack-go/watchlist"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// .env is a development convenience; in production the variables are
	// set directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg(".env file not loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// External collaborators: the CRUD store owning user data, and the
	// read-only metadata provider.
	storeClient := store.NewClient(cfg.Store, logger)
	metadataClient := tmdb.NewClient(cfg.Metadata, logger)

	// The bus carries the watchlist-changed notification to SSE clients.
	bus := events.NewBus(logger)

	cacheStore := cache.NewStore(storeClient, logger)
	resolver := cache.NewResolver(cacheStore, metadataClient, logger)

	// Restore the durable session before serving: a restart must not log
	// the user out.
	sessionStore := session.NewStore(cfg.Session, logger)
	sessionStore.Load()

	validate := validator.New()

	watchlistService := watchlist.NewService(storeClient, bus, logger)
	reviewService := reviews.NewService(storeClient, watchlistService, validate, logger)
	sessionService := session.NewService(storeClient, sessionStore, reviewService, validate, logger)

	sessionHandlers := session.NewHandlers(sessionService)
	movieHandlers := movies.NewHandlers(metadataClient, resolver)
	watchlistHandlers := watchlist.NewHandlers(watchlistService)
	reviewHandlers := reviews.NewHandlers(reviewService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps error responses in the standard shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error().Interface("panic", rvr).Msg("request panicked")
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", sessionHandlers.HandleRegister())
		r.Post("/login", sessionHandlers.HandleLogin())
		r.Post("/logout", sessionHandlers.HandleLogout())
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(session.RequireSession(sessionStore))
		r.Get("/me", sessionHandlers.HandleGetProfile())
		r.Put("/me", sessionHandlers.HandleUpdateProfile())
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		movieHandlers.RegisterRoutes(r)
	})

	r.Route("/api/v1/watchlist", func(r chi.Router) {
		r.Use(session.RequireSession(sessionStore))
		watchlistHandlers.RegisterRoutes(r)
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		reviewHandlers.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(session.RequireSession(sessionStore))
			reviewHandlers.RegisterProtectedRoutes(r)
		})
	})

	// Watchlist change notifications, one SSE stream per connected view.
	r.Get("/api/v1/events", events.StreamHandler(bus))

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE stream stays open for the lifetime of
		// each connected client.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// writeError is a local helper for the panic recovery middleware, kept
// here so the middleware does not depend on any handler package.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
