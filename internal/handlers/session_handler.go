package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mindnest/backend/internal/gamification"
	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/repositories"
)

// SessionHandler records completed guided meditation sessions with mood tracking
type SessionHandler struct {
	sessionRepository repositories.SessionRepository
	ledger            gamification.Ledger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionRepo repositories.SessionRepository, ledger gamification.Ledger) *SessionHandler {
	return &SessionHandler{sessionRepository: sessionRepo, ledger: ledger}
}

// RegisterSessionRoutes registers meditation session routes
func (h *SessionHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/sessions/complete", h.CompleteSession)
	g.GET("/sessions", h.GetSessions)
}

// CompleteSession stores a finished session and awards completion points
func (h *SessionHandler) CompleteSession(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := new(models.CompleteSessionRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session := &models.MeditationSession{
		UserID:      userID,
		Kind:        req.Kind,
		DurationSec: req.DurationSec,
		MoodBefore:  req.MoodBefore,
		MoodAfter:   req.MoodAfter,
	}
	if err := h.sessionRepository.CreateSession(c.Request().Context(), session); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionMeditationCompleted)
	if err != nil {
		return ledgerHTTPError(err)
	}

	data := echo.Map{"session": session, "points": result.Points, "level": result.Level}
	if remaining, ok := gamification.PointsToNextLevel(result.Points); ok {
		data["points_to_next_level"] = remaining
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": data})
}

// GetSessions returns the user's recent sessions
func (h *SessionHandler) GetSessions(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, err := h.sessionRepository.GetByUserID(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"sessions": sessions}})
}
