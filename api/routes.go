package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public read routes, the session routes and the
// admin routes behind protectRoute
func setupRoutes(r chi.Router, handlers *routeHandlers, uploads *uploadMount) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())
		r.Get("/portfolio", handlers.healthHandler.getPortfolio())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/technologies", handlers.projectHandler.getTechnologyVocabulary())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())

		r.Get("/technologies", handlers.technologyHandler.getAllTechnologies())

		r.Get("/services", handlers.serviceHandler.getAllServices())
		r.Get("/service/{serviceID}", handlers.serviceHandler.getService())

		// Session endpoints
		r.Post("/login", handlers.sessionHandler.login())
		r.Post("/logout", handlers.sessionHandler.logout())
		r.Get("/session", handlers.sessionHandler.getSession())

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(handlers.sessionHandler.protectRoute)

			r.Post("/project", handlers.projectHandler.createProject())
			r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

			r.Post("/technology", handlers.technologyHandler.createTechnology())
			r.Delete("/technology/{technologyID}", handlers.technologyHandler.deleteTechnology())

			r.Post("/service", handlers.serviceHandler.createService())
			r.Put("/service/{serviceID}", handlers.serviceHandler.updateService())
			r.Delete("/service/{serviceID}", handlers.serviceHandler.deleteService())
		})
	})

	if uploads != nil {
		r.Method(http.MethodGet, uploads.prefix+"/*", uploads.handler)
		r.Method(http.MethodHead, uploads.prefix+"/*", uploads.handler)
	}
}
