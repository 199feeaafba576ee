package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/catalog"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	catalog     *catalog.Catalog
	startupTime time.Time
}

func newHealthHandler(cat *catalog.Catalog, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		catalog:     cat,
		startupTime: startupTime,
	}
}

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service is up"
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"status":    "ok",
			"startedAt": h.startupTime.UTC().Format(time.RFC3339),
			"uptime":    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

// getPortfolio returns published projects, technologies and services in one response
// @Summary Portfolio
// @Tags Portfolio
// @Produce json
// @Success 200 {object} catalog.Portfolio "Landing page content"
// @Router /portfolio [get]
func (h healthHandler) getPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolio, err := h.catalog.Portfolio(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}
