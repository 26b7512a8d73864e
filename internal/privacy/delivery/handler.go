package delivery

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/privacy/usecase"
)

// PrivacyHandler serves data export and account deletion
type PrivacyHandler struct {
	privacyUsecase usecase.PrivacyUsecase
}

// NewPrivacyHandler creates a new PrivacyHandler
func NewPrivacyHandler(privacyUsecase usecase.PrivacyUsecase) *PrivacyHandler {
	return &PrivacyHandler{privacyUsecase: privacyUsecase}
}

// Export downloads everything stored about the caller
// GET /api/privacy/export
func (h *PrivacyHandler) Export(c *gin.Context) {
	userID := c.GetString("userID")
	export, err := h.privacyUsecase.Export(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export data"})
		return
	}

	filename := fmt.Sprintf("fitai-export-%s.json", export.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, export)
}

// DeleteAccount erases the caller's account
// DELETE /api/privacy/account
func (h *PrivacyHandler) DeleteAccount(c *gin.Context) {
	report, err := h.privacyUsecase.DeleteAccount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "account deletion incomplete, please retry",
			"report": report,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted", "report": report})
}
