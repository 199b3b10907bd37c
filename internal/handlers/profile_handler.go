package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mindnest/backend/internal/gamification"
	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/repositories"
)

// ProfileHandler handles HTTP requests for the user's own profile
type ProfileHandler struct {
	profileRepository repositories.ProfileRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepository: profileRepo}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.POST("/profile", h.BootstrapProfile)
	g.POST("/profile/push-token", h.RegisterPushToken)
	g.DELETE("/profile/push-token", h.DisablePush)
}

// GetProfile returns the authenticated user's profile with level progress
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.profileRepository.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data := echo.Map{"profile": profile}
	if remaining, ok := gamification.PointsToNextLevel(profile.Points); ok {
		data["points_to_next_level"] = remaining
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// BootstrapProfile creates the profile document at first sign-in. Returns the
// existing profile unchanged when one is already present.
func (h *ProfileHandler) BootstrapProfile(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := new(models.BootstrapProfileRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if existing, err := h.profileRepository.GetProfile(ctx, userID); err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"profile": existing}})
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile := &models.Profile{
		ID:          userID,
		DisplayName: req.DisplayName,
		Points:      0,
		Level:       gamification.LevelFor(0),
	}
	if err := h.profileRepository.CreateProfile(ctx, profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"profile": profile}})
}

// RegisterPushToken stores a device registration token after permission grant
func (h *ProfileHandler) RegisterPushToken(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	req := new(models.RegisterPushTokenRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.profileRepository.SavePushToken(c.Request().Context(), userID, req.Token); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"push_enabled": true}})
}

// DisablePush is the explicit opt-out transition: the stored token is removed
// and push is disabled until a new token is registered.
func (h *ProfileHandler) DisablePush(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.profileRepository.ClearPushToken(c.Request().Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"push_enabled": false}})
}
