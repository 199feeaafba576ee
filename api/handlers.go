package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/catalog"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(cat *catalog.Catalog, session sessionConfig, maxUploadBytes int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:     newHealthHandler(cat, startupTime),
		projectHandler:    newProjectHandler(cat, maxUploadBytes),
		technologyHandler: newTechnologyHandler(cat),
		serviceHandler:    newServiceHandler(cat),
		sessionHandler:    newSessionHandler(session),
	}
}
