package usecase

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
)

var (
	ErrMalformedEvent = errors.New("malformed stripe event")
	ErrNoEmail        = errors.New("event carries no customer email")
)

// BillingUsecase applies verified Stripe events to user subscriptions
type BillingUsecase interface {
	HandleEvent(ctx context.Context, event stripe.Event) (Outcome, error)
}

// PremiumSetter is the slice of the user usecase billing needs
type PremiumSetter interface {
	SetPremiumByEmail(ctx context.Context, email, actor string) (bool, error)
	RevokePremiumByEmail(ctx context.Context, email, actor string) (bool, error)
}

// CustomerEmailLookup resolves a Stripe customer ID to its email
type CustomerEmailLookup interface {
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// Outcome describes what an event did, for logging and the webhook response
type Outcome struct {
	Event   string `json:"event"`
	Email   string `json:"email,omitempty"`
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
}

const (
	OutcomeGranted = "granted"
	OutcomeRevoked = "revoked"
	OutcomeIgnored = "ignored"
)
