package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/coach/domain"
	"fitai-backend/internal/coach/usecase"
)

// CoachHandler handles coach/student linking requests
type CoachHandler struct {
	coachUsecase usecase.CoachUsecase
}

// NewCoachHandler creates a new CoachHandler
func NewCoachHandler(coachUsecase usecase.CoachUsecase) *CoachHandler {
	return &CoachHandler{coachUsecase: coachUsecase}
}

// CreateInvite issues a new invite code for the calling coach
// POST /api/coach/invites
func (h *CoachHandler) CreateInvite(c *gin.Context) {
	invite, err := h.coachUsecase.CreateInvite(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

// RedeemInvite links the caller to the coach who issued the code
// POST /api/coach/invites/:code/redeem
func (h *CoachHandler) RedeemInvite(c *gin.Context) {
	link, err := h.coachUsecase.RedeemInvite(c.Request.Context(), c.GetString("userID"), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// ListStudents returns the calling coach's students
// GET /api/coach/students
func (h *CoachHandler) ListStudents(c *gin.Context) {
	students, err := h.coachUsecase.ListStudents(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students, "total": len(students)})
}

// ListCoaches returns the caller's coaches
// GET /api/coach/coaches
func (h *CoachHandler) ListCoaches(c *gin.Context) {
	coaches, err := h.coachUsecase.ListCoaches(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coaches": coaches, "total": len(coaches)})
}

// Unlink removes a coach/student link
// DELETE /api/coach/links/:coachId/:studentId
func (h *CoachHandler) Unlink(c *gin.Context) {
	err := h.coachUsecase.Unlink(c.Request.Context(), c.GetString("userID"), c.Param("coachId"), c.Param("studentId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "link removed"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotCoach), errors.Is(err, usecase.ErrForbidden), errors.Is(err, domain.ErrSelfInvite):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInviteNotFound), errors.Is(err, usecase.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInviteExpired), errors.Is(err, domain.ErrInviteUsed):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
