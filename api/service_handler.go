package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
)

type serviceHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *catalog.Catalog
}

func newServiceHandler(cat *catalog.Catalog) serviceHandler {
	logger := log.With().Str("handlerName", "serviceHandler").Logger()

	return serviceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   cat,
	}
}

// @Summary Get all services
// @Tags Services
// @Produce json
// @Success 200 {array} models.Service "List of services"
// @Router /services [get]
func (h serviceHandler) getAllServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := h.catalog.ListServices(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, services)
	}
}

// @Summary Get service
// @Tags Services
// @Produce json
// @Param serviceID path string true "Service ID" format(uuid)
// @Success 200 {object} models.Service "Service details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid serviceID"
// @Failure 404 {object} ErrorResponse "Not Found - Service not found"
// @Router /service/{serviceID} [get]
func (h serviceHandler) getService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := parseServiceID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		service, err := h.catalog.GetService(r.Context(), serviceID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, service)
	}
}

// @Summary Create service
// @Tags Services
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param service body catalog.ServiceInput true "Service"
// @Success 201 {object} models.Service "Created service"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid service data"
// @Router /service [post]
func (h serviceHandler) createService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := readServiceInput(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		service, err := h.catalog.CreateService(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "service created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, service)
	}
}

// updateService replaces every editable field of a service
// @Summary Update service
// @Tags Services
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param serviceID path string true "Service ID" format(uuid)
// @Param service body catalog.ServiceInput true "Service"
// @Success 200 {object} models.Service "Updated service"
// @Failure 404 {object} ErrorResponse "Not Found - Service not found"
// @Router /service/{serviceID} [put]
func (h serviceHandler) updateService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := parseServiceID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := readServiceInput(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		service, err := h.catalog.UpdateService(r.Context(), serviceID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "service updated")
		h.responder.WriteJSON(w, service)
	}
}

// @Summary Delete service
// @Tags Services
// @Produce json
// @Param serviceID path string true "Service ID" format(uuid)
// @Success 200 {object} DeleteResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Service not found"
// @Router /service/{serviceID} [delete]
func (h serviceHandler) deleteService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := parseServiceID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.DeleteService(r.Context(), serviceID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "service deleted")
		h.responder.writeDeleted(w, "service")
	}
}

func parseServiceID(r *http.Request) (uuid.UUID, error) {
	serviceIDStr := chi.URLParam(r, "serviceID")
	if serviceIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing serviceID")
	}

	serviceID, err := uuid.Parse(serviceIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid serviceID")
	}
	return serviceID, nil
}

func readServiceInput(w http.ResponseWriter, r *http.Request) (catalog.ServiceInput, error) {
	var input catalog.ServiceInput
	err := decodeBody(w, r, &input, func(get func(string) string) {
		input.Title = get("title")
		input.ShortDescription = get("shortDescription")
		input.LongDescription = get("longDescription")
		input.Icon = get("icon")
	})
	return input, err
}
