package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github-dashboard-api/internal/dashboard"
	"github-dashboard-api/internal/models"
)

// UserHandler serves the per-user dashboard views.
type UserHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

func NewUserHandler(svc *dashboard.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// parsePage reads ?page=, falling back to 1 for anything that is not a positive integer.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// GetUser returns the full overview on page 1 and only the next page of
// repositories afterwards.
func (h *UserHandler) GetUser(c *gin.Context) {
	username := c.Param("username")
	page := parsePage(c)

	if page > 1 {
		c.JSON(http.StatusOK, gin.H{"repos": h.svc.Repos(c.Request.Context(), username, page)})
		return
	}

	ov, err := h.svc.Overview(c.Request.Context(), username)
	if err != nil {
		h.profileError(c, username, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// GetActivity returns the user's longest activity streak.
func (h *UserHandler) GetActivity(c *gin.Context) {
	streak := h.svc.Streak(c.Request.Context(), c.Param("username"))
	c.JSON(http.StatusOK, gin.H{"longest_streak": streak})
}

// GetPersona returns a generated developer persona for the user.
func (h *UserHandler) GetPersona(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")

	profile, err := h.svc.Profile(ctx, username)
	if err != nil {
		h.profileError(c, username, err)
		return
	}

	res := h.svc.Persona(ctx, profile, h.svc.Repos(ctx, username, 1))
	if !res.OK() {
		writeGenerationError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"persona": res.Text})
}

func (h *UserHandler) profileError(c *gin.Context, username string, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User '" + username + "' not found."})
		return
	}
	h.logger.Error("profile lookup failed", "user", username, "error", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub is unavailable, try again later"})
}

// generationStatus maps a failed generation to an HTTP status.
func generationStatus(kind models.GenerationErrorKind) int {
	switch kind {
	case models.GenBadRequest:
		return http.StatusUnprocessableEntity
	case models.GenTimeout:
		return http.StatusGatewayTimeout
	case models.GenUnexpectedShape:
		return http.StatusBadGateway
	case models.GenReadmeNotFound:
		return http.StatusNotFound
	case models.GenNotConfigured:
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

func writeGenerationError(c *gin.Context, e *models.GenerationError) {
	body := gin.H{"error": e.Detail, "kind": e.Kind}
	if e.FinishReason != "" {
		body["finish_reason"] = e.FinishReason
	}
	c.JSON(generationStatus(e.Kind), body)
}
