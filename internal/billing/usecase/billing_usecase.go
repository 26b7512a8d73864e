package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"fitai-backend/pkg/logging"
)

const stripeActor = "stripe"

type billingUsecase struct {
	users     PremiumSetter
	customers CustomerEmailLookup
}

// NewBillingUsecase creates a new BillingUsecase. customers may be nil, in
// which case deleted subscriptions must carry metadata["email"].
func NewBillingUsecase(users PremiumSetter, customers CustomerEmailLookup) BillingUsecase {
	return &billingUsecase{users: users, customers: customers}
}

func (u *billingUsecase) HandleEvent(ctx context.Context, event stripe.Event) (Outcome, error) {
	log := logging.Component("billing")
	out := Outcome{Event: string(event.Type), Action: OutcomeIgnored}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return out, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		email := session.CustomerEmail
		if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
			email = session.CustomerDetails.Email
		}
		if email == "" {
			return out, ErrNoEmail
		}
		applied, err := u.users.SetPremiumByEmail(ctx, email, stripeActor)
		if err != nil {
			return out, err
		}
		out.Email, out.Action, out.Applied = strings.ToLower(email), OutcomeGranted, applied

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return out, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		email, err := u.subscriptionEmail(ctx, &sub)
		if err != nil {
			return out, err
		}
		applied, err := u.users.RevokePremiumByEmail(ctx, email, stripeActor)
		if err != nil {
			return out, err
		}
		out.Email, out.Action, out.Applied = strings.ToLower(email), OutcomeRevoked, applied

	default:
		log.Debug().Str("type", string(event.Type)).Str("id", event.ID).Msg("unhandled stripe event")
		return out, nil
	}

	log.Info().
		Str("type", out.Event).
		Str("id", event.ID).
		Str("action", out.Action).
		Bool("applied", out.Applied).
		Msg("stripe event processed")
	return out, nil
}

func (u *billingUsecase) subscriptionEmail(ctx context.Context, sub *stripe.Subscription) (string, error) {
	if email := sub.Metadata["email"]; email != "" {
		return email, nil
	}
	if sub.Customer == nil {
		return "", ErrNoEmail
	}
	if sub.Customer.Email != "" {
		return sub.Customer.Email, nil
	}
	if u.customers == nil || sub.Customer.ID == "" {
		return "", ErrNoEmail
	}
	email, err := u.customers.CustomerEmail(ctx, sub.Customer.ID)
	if err != nil {
		return "", fmt.Errorf("lookup customer %s: %w", sub.Customer.ID, err)
	}
	if email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}

type stripeCustomers struct {
	api *client.API
}

// NewStripeCustomerLookup resolves customers through the Stripe API
func NewStripeCustomerLookup(secretKey string) CustomerEmailLookup {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &stripeCustomers{api: sc}
}

func (s *stripeCustomers) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	c, err := s.api.Customers.Get(customerID, params)
	if err != nil {
		return "", err
	}
	return c.Email, nil
}
