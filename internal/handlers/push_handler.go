package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/push"
	"github.com/mindnest/backend/internal/repositories"
	"github.com/mindnest/backend/pkg/config"
)

// PushHandler exposes the standalone push-send endpoint used by server-side
// triggers. One configurable handler replaces the per-event sender variants;
// the delivery strategy (real FCM vs dry-run) is chosen in the router.
type PushHandler struct {
	cfg        *config.Config
	dispatcher push.Dispatcher
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(cfg *config.Config, dispatcher push.Dispatcher) *PushHandler {
	return &PushHandler{cfg: cfg, dispatcher: dispatcher}
}

// RegisterPushRoutes registers the push-send endpoint and its preflight
func (h *PushHandler) RegisterPushRoutes(e *echo.Echo) {
	e.POST("/push/send", h.SendPush)
	e.OPTIONS("/push/send", h.Preflight)
}

// Preflight answers CORS preflight with permissive headers
func (h *PushHandler) Preflight(c echo.Context) error {
	header := c.Response().Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	return c.NoContent(http.StatusOK)
}

// SendPush synchronously resolves the recipient and delivers a push message,
// returning the gateway message id. Missing backend credentials are a fatal
// 500 with a diagnostic body listing the absent keys.
func (h *PushHandler) SendPush(c echo.Context) error {
	c.Response().Header().Set("Access-Control-Allow-Origin", "*")

	if missing := h.cfg.MissingPushCredentials(); len(missing) > 0 {
		return echo.NewHTTPError(http.StatusInternalServerError,
			"missing configuration: "+strings.Join(missing, ", "))
	}

	req := new(models.SendPushRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notification := &models.Notification{
		Type:        req.Type,
		RecipientID: req.RecipientID,
		Message:     req.Message,
		PostID:      req.Metadata["postId"],
	}

	messageID, err := h.dispatcher.Dispatch(c.Request().Context(), notification)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient profile not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   messageID != "",
		"messageId": messageID,
	})
}
