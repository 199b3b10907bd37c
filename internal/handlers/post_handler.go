package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mindnest/backend/internal/gamification"
	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/push"
	"github.com/mindnest/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostHandler handles posts and the like/heart reactions on them. It is the
// orchestrator coupling the points ledger with notification creation: the two
// side effects are independent best-effort siblings, never a transaction.
type PostHandler struct {
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
	ledger                 gamification.Ledger
	dispatcher             push.Dispatcher
	logger                 *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, notifRepo repositories.NotificationRepository, ledger gamification.Ledger, dispatcher push.Dispatcher, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		notificationRepository: notifRepo,
		ledger:                 ledger,
		dispatcher:             dispatcher,
		logger:                 logger,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.POST("/posts/:post_id/hearts", h.HeartPost)
	g.DELETE("/posts/:post_id/hearts", h.UnheartPost)
}

// ledgerHTTPError maps ledger failures onto the HTTP surface. An unavailable
// ledger fails the triggering action so the client can roll back optimistic UI.
func ledgerHTTPError(err error) *echo.HTTPError {
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}
	if errors.Is(err, gamification.ErrLedgerUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Action failed, please try again")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// notifyAndAward creates the recipient-facing notification and awards the
// owner's received-side points. Both are best-effort: failures are logged and
// never fail the actor's action. Self-actions are excluded by the caller.
func (h *PostHandler) notifyAndAward(actorID, ownerID, postID, notifType, message string, receivedKind models.ActionKind) {
	if receivedKind != "" {
		if _, err := h.ledger.Apply(context.Background(), ownerID, receivedKind); err != nil {
			h.logger.Warn("received-side points award failed",
				zap.String("owner_id", ownerID),
				zap.String("action", string(receivedKind)),
				zap.Error(err))
		}
	}

	notification := &models.Notification{
		Type:        notifType,
		SenderID:    actorID,
		RecipientID: ownerID,
		PostID:      postID,
		Message:     message,
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		h.logger.Warn("notification creation failed",
			zap.String("recipient_id", ownerID),
			zap.String("type", notifType),
			zap.Error(err))
		return
	}
	go h.dispatcher.OnNotificationCreated(context.Background(), notification)
}

// CreatePost creates a feed post and awards the author's points
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID:  userID,
		Content:   req.Content,
		LikedBy:   []string{},
		HeartedBy: []string{},
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionPost)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"post": post, "points": result.Points, "level": result.Level},
	})
}

// GetPosts returns the feed with pagination
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// LikePost handles liking a post
func (h *PostHandler) LikePost(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	added, err := h.postRepository.AddLike(c.Request().Context(), postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !added {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionLikeGiven)
	if err != nil {
		return ledgerHTTPError(err)
	}

	// Never notify or award the received side on self-likes.
	if post.AuthorID != userID {
		h.notifyAndAward(userID, post.AuthorID, postID, models.NotificationTypeLike,
			"Someone appreciated your post", models.ActionLikeReceived)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"points": result.Points, "level": result.Level},
	})
}

// UnlikePost handles unliking a post
func (h *PostHandler) UnlikePost(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	removed, err := h.postRepository.RemoveLike(c.Request().Context(), postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Like not found")
	}

	result, err := h.ledger.Reverse(c.Request().Context(), userID, models.ActionLikeGiven)
	if err != nil {
		return ledgerHTTPError(err)
	}

	if post.AuthorID != userID {
		if _, err := h.ledger.Reverse(context.Background(), post.AuthorID, models.ActionLikeReceived); err != nil {
			h.logger.Warn("received-side points reversal failed",
				zap.String("owner_id", post.AuthorID),
				zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"points": result.Points, "level": result.Level},
	})
}

// HeartPost handles sending a heart reaction to a post
func (h *PostHandler) HeartPost(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	added, err := h.postRepository.AddHeart(c.Request().Context(), postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !added {
		return echo.NewHTTPError(http.StatusConflict, "Post already hearted by this user")
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionHeartReaction)
	if err != nil {
		return ledgerHTTPError(err)
	}

	if post.AuthorID != userID {
		h.notifyAndAward(userID, post.AuthorID, postID, models.NotificationTypeHeartReaction,
			"Someone sent your post a heart", "")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"points": result.Points, "level": result.Level},
	})
}

// UnheartPost handles removing a heart reaction
func (h *PostHandler) UnheartPost(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	removed, err := h.postRepository.RemoveHeart(c.Request().Context(), postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Heart reaction not found")
	}

	result, err := h.ledger.Reverse(c.Request().Context(), userID, models.ActionHeartReaction)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"points": result.Points, "level": result.Level},
	})
}
