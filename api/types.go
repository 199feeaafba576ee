package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler     healthHandler
	projectHandler    projectHandler
	technologyHandler technologyHandler
	serviceHandler    serviceHandler
	sessionHandler    sessionHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"a project with this slug already exists: my-project"`
	Message string `json:"message" example:"a project with this slug already exists"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"slug"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// DeleteResponse is returned by every delete endpoint
type DeleteResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"project deleted successfully"`
}
