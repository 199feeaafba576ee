package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	sessionCookieName = "admin_session"
	sessionMaxAge     = 24 * time.Hour
	loginPath         = "/login"
)

type sessionConfig struct {
	password string
	secure   bool
	now      func() time.Time
}

type sessionHandler struct {
	responder Responder
	logger    zerolog.Logger
	config    sessionConfig
}

func newSessionHandler(config sessionConfig) sessionHandler {
	logger := log.With().Str("handlerName", "sessionHandler").Logger()
	if config.now == nil {
		config.now = time.Now
	}

	return sessionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		config:    config,
	}
}

// protectRoute lets the request through only when the session cookie is
// present and non-empty. Its value is not verified.
func (h sessionHandler) protectRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			h.logger.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("unauthenticated admin request")
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), cookie.Value)))
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

// login exchanges the admin password for a session cookie
// @Summary Log in
// @Tags Session
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param login body loginRequest true "Admin password"
// @Success 200 {object} map[string]bool "Login succeeded"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid password"
// @Router /login [post]
func (h sessionHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		password, err := readPassword(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if subtle.ConstantTimeCompare([]byte(password), []byte(h.config.password)) != 1 {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("failed admin login")
			h.responder.WriteError(w, errs.NewInvalidPasswordError())
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    fmt.Sprintf("admin_session_%d", h.config.now().UnixMilli()),
			Path:     "/",
			MaxAge:   int(sessionMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   h.config.secure,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, map[string]bool{"success": true})
	}
}

// logout clears the session cookie and sends the browser back to the login page
// @Summary Log out
// @Tags Session
// @Success 303 "Redirect to /login"
// @Router /logout [post]
func (h sessionHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.config.secure,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	}
}

// @Summary Session state
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]bool "Whether the admin cookie is present"
// @Router /session [get]
func (h sessionHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		h.responder.WriteJSON(w, map[string]bool{
			"authenticated": err == nil && cookie.Value != "",
		})
	}
}

func readPassword(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errs.NewInvalidJSONError(err)
		}
		return req.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", errs.NewBadRequestError("could not parse login form")
	}
	return r.PostFormValue("password"), nil
}

// logAdminAction records a completed mutation together with the session that made it
func logAdminAction(logger zerolog.Logger, r *http.Request, action string) {
	session, err := ctxGetSession(r.Context())
	if err != nil {
		session = "unknown"
	}
	logger.Info().
		Str("session", session).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(action)
}
