package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authdelivery "fitai-backend/internal/auth/delivery"
	"fitai-backend/internal/user/usecase"
)

// UserHandler handles profile, settings and admin subscription requests
type UserHandler struct {
	userUsecase usecase.UserUsecase
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// PremiumRequest represents the body of an admin subscription flip
type PremiumRequest struct {
	Email  string `json:"email" binding:"required"`
	Revoke bool   `json:"revoke"`
	Actor  string `json:"actor"`
}

// Me returns the caller's profile
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userUsecase.GetProfile(c.Request.Context(), authdelivery.CurrentIdentity(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSettings merges a partial settings update
// PUT /api/users/me/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req usecase.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	identity := authdelivery.CurrentIdentity(c)
	// Make sure the record exists before merging into it
	if _, err := h.userUsecase.GetProfile(c.Request.Context(), identity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	user, err := h.userUsecase.UpdateSettings(c.Request.Context(), identity.UID, req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSettings):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPremium grants or revokes premium for an email
// POST /api/admin/premium
func (h *UserHandler) SetPremium(c *gin.Context) {
	var req PremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = "admin-api"
	}

	var (
		found bool
		err   error
	)
	if req.Revoke {
		found, err = h.userUsecase.RevokePremiumByEmail(c.Request.Context(), req.Email, actor)
	} else {
		found, err = h.userUsecase.SetPremiumByEmail(c.Request.Context(), req.Email, actor)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscription"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no user with that email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": strings.ToLower(strings.TrimSpace(req.Email)), "isPremium": !req.Revoke})
}
