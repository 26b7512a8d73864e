package delivery

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/voice/usecase"
)

// CueTextHeader carries the spoken text, percent-encoded, next to the audio
const CueTextHeader = "X-Cue-Text"

// VoiceHandler serves synthesized coaching cues
type VoiceHandler struct {
	voiceUsecase usecase.VoiceUsecase
}

// NewVoiceHandler creates a new VoiceHandler
func NewVoiceHandler(voiceUsecase usecase.VoiceUsecase) *VoiceHandler {
	return &VoiceHandler{voiceUsecase: voiceUsecase}
}

// Cue returns a spoken cue as audio/wav
// POST /api/voice/cue
func (h *VoiceHandler) Cue(c *gin.Context) {
	var req usecase.CueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cue, err := h.voiceUsecase.Cue(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCue):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrPremiumRequired):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrTTSUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to synthesize cue"})
		}
		return
	}

	c.Header(CueTextHeader, url.PathEscape(cue.Text))
	c.Header("X-Cue-Duration-Ms", strconv.Itoa(cue.DurationMS))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "audio/wav", cue.WAV)
}
