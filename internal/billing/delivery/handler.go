package delivery

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	"fitai-backend/internal/billing/usecase"
	"fitai-backend/pkg/logging"
)

const maxWebhookBody = 64 << 10

// BillingHandler receives Stripe webhooks
type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
	webhookSecret  string
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingUsecase usecase.BillingUsecase, webhookSecret string) *BillingHandler {
	return &BillingHandler{billingUsecase: billingUsecase, webhookSecret: webhookSecret}
}

// StripeWebhook verifies and applies a Stripe event
// POST /api/billing/stripe/webhook
func (h *BillingHandler) StripeWebhook(c *gin.Context) {
	log := logging.Component("billing")
	if h.webhookSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "billing webhook not configured"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Warn().Err(err).Msg("rejected stripe webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	out, err := h.billingUsecase.HandleEvent(c.Request.Context(), event)
	if err != nil {
		// Stripe retries on non-2xx, which only helps transient failures
		if errors.Is(err, usecase.ErrMalformedEvent) || errors.Is(err, usecase.ErrNoEmail) {
			log.Warn().Err(err).Str("id", event.ID).Msg("unusable stripe event")
			c.JSON(http.StatusOK, gin.H{"received": true, "error": err.Error()})
			return
		}
		log.Error().Err(err).Str("id", event.ID).Msg("failed to apply stripe event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": out})
}
