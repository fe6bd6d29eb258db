package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"person-web-service/internal/adapter/gin/middleware"
	"person-web-service/internal/adapter/gin/view"
	"person-web-service/internal/usecase/person"
	apperrors "person-web-service/pkg/errors"
	"person-web-service/pkg/logger"
)

// Fixed response bodies.
const (
	NoRecordsMessage  = "No records found"
	SessionSetMessage = "Session set (permanent). Check the cookie attributes in your browser devtools."
	HomeMessage       = "Welcome to the Home Page"
)

// PingFunc reports whether the database is reachable.
type PingFunc func(ctx context.Context) error

// WebHandler serves the HTML form, the listing and the demo routes.
type WebHandler struct {
	uc          person.Usecase
	store       sessions.Store
	sessionName string
	ping        PingFunc
	log         *zap.Logger
}

// NewWebHandler creates a new WebHandler instance.
func NewWebHandler(uc person.Usecase, store sessions.Store, sessionName string, ping PingFunc, log *zap.Logger) *WebHandler {
	return &WebHandler{
		uc:          uc,
		store:       store,
		sessionName: sessionName,
		ping:        ping,
		log:         log,
	}
}

// Index handles GET /: the empty form plus the listing.
func (h *WebHandler) Index(c *gin.Context) {
	h.renderIndex(c, person.CreatePersonRequest{}, nil)
}

// CreatePerson handles POST /. A valid form is stored and redirected back to /;
// an invalid one re-renders the page with field messages.
func (h *WebHandler) CreatePerson(c *gin.Context) {
	var form person.CreatePersonRequest
	if err := c.ShouldBind(&form); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("failed to bind person form", zap.Error(err))
	}

	_, err := h.uc.CreatePerson(c.Request.Context(), form)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			h.renderIndex(c, form, ve.Fields)
			return
		}
		h.internalError(c, "failed to create person", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) renderIndex(c *gin.Context, form person.CreatePersonRequest, fieldErrors map[string]string) {
	resp, err := h.uc.ListPeople(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list people", err)
		return
	}

	c.HTML(http.StatusOK, view.IndexPage, view.Index{
		Form:      form,
		Errors:    fieldErrors,
		People:    resp.People,
		CSRFField: middleware.CSRFField(c.Request),
	})
}

// Search handles GET /search/:name with one plain-text line per exact first-name match.
func (h *WebHandler) Search(c *gin.Context) {
	resp, err := h.uc.SearchPeople(c.Request.Context(), person.SearchPeopleRequest{FirstName: c.Param("name")})
	if err != nil {
		h.internalError(c, "failed to search people", err)
		return
	}

	if len(resp.People) == 0 {
		c.String(http.StatusOK, NoRecordsMessage)
		return
	}

	var b strings.Builder
	for _, p := range resp.People {
		b.WriteString(p.FirstName + " " + p.LastName + " (" + p.Email + ")\n")
	}
	c.String(http.StatusOK, b.String())
}

// SetSession handles GET /set_session. The store's options carry the cookie attributes.
func (h *WebHandler) SetSession(c *gin.Context) {
	session, err := h.store.Get(c.Request, h.sessionName)
	if err != nil {
		// An undecodable cookie still yields a fresh session.
		logger.WithContext(c.Request.Context(), h.log).Debug("discarding invalid session cookie", zap.Error(err))
	}

	session.Values["user"] = "test_user"
	if err := session.Save(c.Request, c.Writer); err != nil {
		h.internalError(c, "failed to save session", err)
		return
	}

	c.String(http.StatusOK, SessionSetMessage)
}

// Home handles GET /home.
func (h *WebHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, HomeMessage)
}

// Health handles GET /health.
func (h *WebHandler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			logger.WithContext(c.Request.Context(), h.log).Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// NotFound renders the 404 page for unmatched routes.
func (h *WebHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, view.NotFoundPage, nil)
}

func (h *WebHandler) internalError(c *gin.Context, msg string, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)
	var ie *apperrors.InternalError
	if errors.As(err, &ie) {
		log.Error(msg, zap.String("cause", ie.Message), zap.Error(ie.Err))
	} else {
		log.Error(msg, zap.Error(err))
	}
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, view.ErrorPage, nil)
}
