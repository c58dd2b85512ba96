package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"legaluplift/pkg/payloads"
	"legaluplift/pkg/sessions"
	"legaluplift/pkg/utils"
	"legaluplift/pkg/wizard"
)

// WizardSessions is the session manager as seen by the HTTP layer.
type WizardSessions interface {
	Create() (sessions.View, error)
	View(id string) (sessions.View, error)
	Dispatch(ctx context.Context, id string, ev wizard.Event, meta payloads.RequestMeta) (sessions.View, error)
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	sessions WizardSessions
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(sessions WizardSessions, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRoutes mounts the wizard API on r.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	wizardGroup := r.Group("/wizard/sessions")
	wizardGroup.POST("", h.CreateSession)
	wizardGroup.GET("/:id", h.GetSession)
	wizardGroup.POST("/:id/events", h.DispatchEvent)
	wizardGroup.POST("/:id/previous", h.Previous)
	wizardGroup.POST("/:id/restart", h.Restart)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// CreateSession starts a wizard on its first step.
func (h *Handlers) CreateSession(c *gin.Context) {
	view, err := h.sessions.Create()
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, view, "Session created")
}

// GetSession returns the current view of a session.
func (h *Handlers) GetSession(c *gin.Context) {
	view, err := h.sessions.View(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}
	utils.RespondOK(c, view, "")
}

// DispatchEvent applies one screen submission to the session.
func (h *Handlers) DispatchEvent(c *gin.Context) {
	var ev wizard.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event payload")
		return
	}
	h.dispatch(c, ev)
}

// Previous moves the session back one step.
func (h *Handlers) Previous(c *gin.Context) {
	h.dispatch(c, wizard.Event{Type: wizard.EventPrevious})
}

// Restart clears the session and returns it to the first step.
func (h *Handlers) Restart(c *gin.Context) {
	h.dispatch(c, wizard.Event{Type: wizard.EventRestart})
}

func (h *Handlers) dispatch(c *gin.Context, ev wizard.Event) {
	view, err := h.sessions.Dispatch(c.Request.Context(), c.Param("id"), ev, requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err, view)
		return
	}
	utils.RespondOK(c, view, "")
}

// requestMeta captures the browser details the lead marketplace asks for.
func requestMeta(c *gin.Context) payloads.RequestMeta {
	return payloads.RequestMeta{
		IPAddress:   c.ClientIP(),
		LandingPage: c.Request.Referer(),
	}
}

// handleServiceError maps wizard and session errors to responses. view is
// returned with errors that leave the session usable.
func (h *Handlers) handleServiceError(c *gin.Context, err error, view any) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondErrorData(c, http.StatusUnprocessableEntity, verr.Error(), view)
	case errors.Is(err, sessions.ErrSessionNotFound):
		utils.RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, sessions.ErrTooManySessions):
		utils.RespondError(c, http.StatusServiceUnavailable, "Too many active sessions, try again later")
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrComplete),
		errors.Is(err, wizard.ErrNoPreviousStep):
		utils.RespondErrorData(c, http.StatusConflict, err.Error(), view)
	case errors.Is(err, wizard.ErrUnknownEvent):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unexpected wizard error", "error", err)
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
