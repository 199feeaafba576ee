package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	catalog        *catalog.Catalog
	maxUploadBytes int64
}

func newProjectHandler(cat *catalog.Catalog, maxUploadBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		catalog:        cat,
		maxUploadBytes: maxUploadBytes,
	}
}

// getAllProjects lists projects newest first, optionally filtered
// @Summary Get all projects
// @Description Retrieves all projects with their technologies. search matches name or overview; every technology given must be linked.
// @Tags Projects
// @Produce json
// @Param search query string false "Free text search"
// @Param technology query []string false "Technology names, repeatable or comma separated"
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.catalog.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := r.URL.Query()
		term := query.Get("search")
		facets := technologyFacets(query["technology"])
		if term != "" || len(facets) > 0 {
			projects = catalog.FilterProjects(projects, term, facets)
		}

		h.responder.WriteJSON(w, projects)
	}
}

// getTechnologyVocabulary lists the technology names used by at least one project
// @Summary Project technology facets
// @Tags Projects
// @Produce json
// @Success 200 {array} string "Sorted technology names"
// @Router /projects/technologies [get]
func (h projectHandler) getTechnologyVocabulary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.catalog.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, catalog.TechnologyVocabulary(projects))
	}
}

// getProject retrieves a project by id or slug
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID or slug"
// @Success 200 {object} models.Project "Project details with technologies"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.catalog.GetProject(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a project from a multipart form
// @Summary Create project
// @Description Stores uploaded images and creates the project. Fails as a whole if any image cannot be written.
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or slug already exists"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Storage failure"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := readProjectSubmission(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer sub.cleanup()

		project, err := h.catalog.CreateProjectWithImages(r.Context(), sub.input, sub.uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "project created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces every editable field of a project
// @Summary Update project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sub, err := readProjectSubmission(w, r, h.maxUploadBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer sub.cleanup()

		project, err := h.catalog.UpdateProjectWithImages(r.Context(), projectID, sub.input, sub.uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "project updated")
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} DeleteResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalog.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logAdminAction(h.logger, r, "project deleted")
		h.responder.writeDeleted(w, "project")
	}
}

func parseProjectID(r *http.Request) (uint, error) {
	return parseUintParam(r, "projectID")
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}

// technologyFacets flattens repeated and comma separated technology parameters
func technologyFacets(values []string) []string {
	var facets []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				facets = append(facets, name)
			}
		}
	}
	return facets
}
