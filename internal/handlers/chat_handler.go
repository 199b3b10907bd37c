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

// ChatHandler handles group support room messages. Delivery to connected room
// members happens outside this service; the backend persists messages and
// awards participation points.
type ChatHandler struct {
	chatRepository repositories.ChatRepository
	ledger         gamification.Ledger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatRepo repositories.ChatRepository, ledger gamification.Ledger) *ChatHandler {
	return &ChatHandler{chatRepository: chatRepo, ledger: ledger}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/rooms/:room_id/messages", h.SendMessage)
	g.GET("/rooms/:room_id/messages", h.GetMessages)
}

// SendMessage stores a room message and awards the sender's points
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	roomID := c.Param("room_id")

	req := new(models.SendChatMessageRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: userID,
		Text:     req.Text,
	}
	if err := h.chatRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionChatMessage)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"message": message, "points": result.Points, "level": result.Level},
	})
}

// GetMessages returns a room's recent messages
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	roomID := c.Param("room_id")

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.chatRepository.GetRoomMessages(c.Request().Context(), roomID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}
