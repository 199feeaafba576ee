package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the collaborators the HTTP layer is built on
type Dependencies struct {
	Catalog       *catalog.Catalog
	AdminPassword string
	// LocalUploads is served under its public path; nil when images live in S3
	LocalUploads *storage.LocalStore
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Catalog == nil {
		return Server{}, fmt.Errorf("api: catalog is required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	opts := []func(*router){withConfig(c), withStartupTime(startupTime), withAdminPassword(deps.AdminPassword)}
	if deps.LocalUploads != nil {
		opts = append(opts, withUploads(deps.LocalUploads.PublicPath(), deps.LocalUploads.Handler()))
	}
	router := newRouter(deps.Catalog, opts...)

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type uploadMount struct {
	prefix  string
	handler http.Handler
}

type router struct {
	config        map[string]string
	startupTime   time.Time
	adminPassword string
	uploads       *uploadMount
	now           func() time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withAdminPassword(password string) func(*router) {
	return func(r *router) {
		r.adminPassword = password
	}
}

func withUploads(prefix string, handler http.Handler) func(*router) {
	return func(r *router) {
		r.uploads = &uploadMount{prefix: prefix, handler: handler}
	}
}

// withClock fixes the time used for session markers
func withClock(now func() time.Time) func(*router) {
	return func(r *router) {
		r.now = now
	}
}

func newRouter(cat *catalog.Catalog, opts ...func(*router)) *chi.Mux {
	router := router{now: time.Now}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	session := sessionConfig{
		password: router.adminPassword,
		secure:   config.IsProduction(router.config),
		now:      router.now,
	}
	maxUploadBytes := int64(config.GetInt(router.config, "MAX_UPLOAD_MB", 10)) << 20

	// Initialize all handlers
	handlers := initializeHandlers(cat, session, maxUploadBytes, router.startupTime)

	// Apply CORS middleware
	acceptedOrigins := parseOrigins(config.GetString(router.config, "ACCEPTED_ORIGINS", ""))
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupRoutes(chiRouter, handlers, router.uploads)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
