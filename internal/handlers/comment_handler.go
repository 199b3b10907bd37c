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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
	ledger                 gamification.Ledger
	dispatcher             push.Dispatcher
	logger                 *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, notifRepo repositories.NotificationRepository, ledger gamification.Ledger, dispatcher push.Dispatcher, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		notificationRepository: notifRepo,
		ledger:                 ledger,
		dispatcher:             dispatcher,
		logger:                 logger,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment, awards the commenter's points, and notifies
// the post author unless they commented on their own post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID); err != nil {
		h.logger.Warn("comments count update failed",
			zap.String("post_id", postID),
			zap.Error(err))
	}

	result, err := h.ledger.Apply(c.Request().Context(), userID, models.ActionComment)
	if err != nil {
		return ledgerHTTPError(err)
	}

	if post.AuthorID != userID {
		notification := &models.Notification{
			Type:        models.NotificationTypeComment,
			SenderID:    userID,
			RecipientID: post.AuthorID,
			PostID:      postID,
			Message:     "Someone commented on your post",
		}
		if err := h.notificationRepository.CreateNotification(notification); err != nil {
			h.logger.Warn("notification creation failed",
				zap.String("recipient_id", post.AuthorID),
				zap.Error(err))
		} else {
			go h.dispatcher.OnNotificationCreated(context.Background(), notification)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"comment": comment, "points": result.Points, "level": result.Level},
	})
}

// GetComments returns a post's comments with pagination
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	comments, total, err := h.commentRepository.GetByPostID(postID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comments": comments, "total": total},
	})
}

// DeleteComment removes the author's own comment and reverses its points
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.commentRepository.DeleteComment(uint(commentID), userID); err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementCommentsCount(c.Request().Context(), comment.PostID); err != nil {
		h.logger.Warn("comments count update failed",
			zap.String("post_id", comment.PostID),
			zap.Error(err))
	}

	result, err := h.ledger.Reverse(c.Request().Context(), userID, models.ActionComment)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"points": result.Points, "level": result.Level},
	})
}
