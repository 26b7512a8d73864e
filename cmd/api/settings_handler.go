package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fitai-backend/pkg/ai"
)

// RuntimeConfig holds runtime-configurable settings
type RuntimeConfig struct {
	AIProvider      ai.ProviderType `json:"ai_provider"`
	OpenRouterModel string          `json:"openrouter_model,omitempty"`
}

var (
	runtimeConfig     RuntimeConfig
	runtimeConfigLock sync.RWMutex
)

// InitRuntimeConfig initializes runtime config from static config
func InitRuntimeConfig(provider ai.ProviderType, openRouterModel string) {
	runtimeConfigLock.Lock()
	defer runtimeConfigLock.Unlock()
	if !provider.Valid() {
		provider = ai.ProviderAuto
	}
	runtimeConfig = RuntimeConfig{
		AIProvider:      provider,
		OpenRouterModel: openRouterModel,
	}
}

// GetRuntimeProvider returns the current runtime AI provider
func GetRuntimeProvider() ai.ProviderType {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.AIProvider
}

// GetRuntimeOpenRouterModel returns the current runtime OpenRouter model
func GetRuntimeOpenRouterModel() string {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.OpenRouterModel
}

// UpdateAISettingsRequest represents the request body for updating AI settings
type UpdateAISettingsRequest struct {
	AIProvider      ai.ProviderType `json:"ai_provider" binding:"required"`
	OpenRouterModel string          `json:"openrouter_model,omitempty"`
}

// GetAISettings returns current AI configuration
// GET /api/admin/settings/ai
func GetAISettings(c *gin.Context) {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()

	c.JSON(http.StatusOK, runtimeConfig)
}

// UpdateAISettings switches provider or OpenRouter model at runtime
// PUT /api/admin/settings/ai
func UpdateAISettings(c *gin.Context) {
	var req UpdateAISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.AIProvider.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ai_provider must be gemini, openrouter or auto"})
		return
	}

	runtimeConfigLock.Lock()
	runtimeConfig.AIProvider = req.AIProvider
	if req.OpenRouterModel != "" {
		runtimeConfig.OpenRouterModel = req.OpenRouterModel
	}
	current := runtimeConfig
	runtimeConfigLock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":          "AI settings updated successfully",
		"ai_provider":      current.AIProvider,
		"openrouter_model": current.OpenRouterModel,
	})
}

// TestAIProvider asks the active provider for a one-line reply
// POST /api/admin/settings/ai/test
func (h *Handler) TestAIProvider(c *gin.Context) {
	if h.textAI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false, "error": "no AI provider configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	started := time.Now()
	reply, err := h.textAI.Generate(ctx, "Reply with a single word.", "Say OK.")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":   false,
			"ai_provider": GetRuntimeProvider(),
			"error":       err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":   true,
		"ai_provider": GetRuntimeProvider(),
		"reply":       reply,
		"latency_ms":  time.Since(started).Milliseconds(),
	})
}
