package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/catalog"
)

type technologyHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *catalog.Catalog
}

func newTechnologyHandler(cat *catalog.Catalog) technologyHandler {
	logger := log.With().Str("handlerName", "technologyHandler").Logger()

	return technologyHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   cat,
	}
}

// @Summary Get all technologies
// @Tags Technologies
// @Produce json
// @Success 200 {array} models.Technology "Technologies sorted by name"
// @Router /technologies [get]
func (h technologyHandler) getAllTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.catalog.ListTechnologies(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, technologies)
	}
}

// createTechnology adds a technology; the name must be unique
// @Summary Create technology
// @Tags Technologies
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param technology body catalog.TechnologyInput true "Technology"
// @Success 201 {object} models.Technology "Created technology"
// @Failure 400 {object} ErrorResponse "Bad Request - name is required"
// @Failure 409 {object} ErrorResponse "Conflict - name already exists"
// @Router /technology [post]
func (h technologyHandler) createTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input catalog.TechnologyInput
		err := decodeBody(w, r, &input, func(get func(string) string) {
			input.Name = get("name")
			input.Icon = get("icon")
			input.Category = get("category")
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		technology, err := h.catalog.CreateTechnology(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "technology created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, technology)
	}
}

// deleteTechnology unlinks the technology from its projects and removes it
// @Summary Delete technology
// @Tags Technologies
// @Produce json
// @Param technologyID path int true "Technology ID"
// @Success 200 {object} DeleteResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Technology not found"
// @Router /technology/{technologyID} [delete]
func (h technologyHandler) deleteTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologyID, err := parseUintParam(r, "technologyID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.DeleteTechnology(r.Context(), technologyID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "technology deleted")
		h.responder.writeDeleted(w, "technology")
	}
}
