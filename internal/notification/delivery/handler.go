package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/internal/notification/usecase"
	"fitai-backend/pkg/logging"
)

// StreamServer upgrades a request to an in-app notification stream
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

// NotificationHandler handles push token and delivery HTTP requests
type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	stream              StreamServer
}

// NewNotificationHandler creates a new NotificationHandler. stream may be nil.
func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, stream StreamServer) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		stream:              stream,
	}
}

// RegisterTokenRequest represents the request body for registering a push token
type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

// TestNotificationRequest represents the optional body for a test push
type TestNotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// RegisterToken stores the caller's push token
// POST /api/notifications/token
func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	userID := c.GetString("userID")

	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	platform := domain.Platform(req.Platform)
	switch platform {
	case "", domain.PlatformWeb, domain.PlatformAndroid, domain.PlatformIOS:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform"})
		return
	}

	err := h.notificationUsecase.RegisterToken(c.Request.Context(), userID, domain.PushToken{
		Token:    req.Token,
		Platform: platform,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyToken) || errors.Is(err, usecase.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

// UnregisterToken removes one of the caller's push tokens
// DELETE /api/notifications/token/:token
func (h *NotificationHandler) UnregisterToken(c *gin.Context) {
	userID := c.GetString("userID")
	token := c.Param("token")

	if err := h.notificationUsecase.UnregisterToken(c.Request.Context(), userID, token); err != nil {
		if errors.Is(err, usecase.ErrEmptyToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unregister token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token unregistered"})
}

// SendTest pushes a test notification to the caller's devices
// POST /api/notifications/test
func (h *NotificationHandler) SendTest(c *gin.Context) {
	userID := c.GetString("userID")

	var req TestNotificationRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = "FitAI test notification"
	}
	if req.Body == "" {
		req.Body = "Notifications are working."
	}

	report, err := h.notificationUsecase.SendToUser(c.Request.Context(), userID, domain.Notification{
		Type:  "test",
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stream opens the in-app notification websocket
// GET /api/notifications/stream
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime notifications disabled"})
		return
	}
	userID := c.GetString("userID")
	if err := h.stream.ServeWS(c.Writer, c.Request, userID); err != nil {
		// The upgrader has already written the HTTP error
		logging.Component("realtime").Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
	}
}
