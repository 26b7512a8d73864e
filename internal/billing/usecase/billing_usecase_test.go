package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v82"
)

type fakeUsers struct {
	granted []string
	revoked []string
	known   map[string]bool
}

func (f *fakeUsers) SetPremiumByEmail(_ context.Context, email, actor string) (bool, error) {
	if actor != "stripe" {
		return false, errors.New("unexpected actor " + actor)
	}
	f.granted = append(f.granted, email)
	return f.known[email], nil
}

func (f *fakeUsers) RevokePremiumByEmail(_ context.Context, email, _ string) (bool, error) {
	f.revoked = append(f.revoked, email)
	return f.known[email], nil
}

type fakeCustomers map[string]string

func (f fakeCustomers) CustomerEmail(_ context.Context, id string) (string, error) {
	return f[id], nil
}

func event(t *testing.T, typ stripe.EventType, obj interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatal(err)
	}
	return stripe.Event{ID: "evt_1", Type: typ, Data: &stripe.EventData{Raw: raw}}
}

func TestCheckoutCompletedGrantsPremium(t *testing.T) {
	users := &fakeUsers{known: map[string]bool{"ana@example.com": true}}
	uc := NewBillingUsecase(users, nil)

	out, err := uc.HandleEvent(context.Background(), event(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id":               "cs_1",
		"customer_details": map[string]string{"email": "ana@example.com"},
	}))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if out.Action != OutcomeGranted || !out.Applied {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(users.granted) != 1 || users.granted[0] != "ana@example.com" {
		t.Fatalf("unexpected grants %v", users.granted)
	}
}

func TestCheckoutFallsBackToCustomerEmail(t *testing.T) {
	users := &fakeUsers{}
	uc := NewBillingUsecase(users, nil)

	out, err := uc.HandleEvent(context.Background(), event(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id":             "cs_2",
		"customer_email": "bo@example.com",
	}))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if out.Applied {
		t.Fatal("unknown email must not be reported as applied")
	}
	if len(users.granted) != 1 || users.granted[0] != "bo@example.com" {
		t.Fatalf("unexpected grants %v", users.granted)
	}
}

func TestCheckoutWithoutEmail(t *testing.T) {
	uc := NewBillingUsecase(&fakeUsers{}, nil)
	_, err := uc.HandleEvent(context.Background(), event(t, stripe.EventTypeCheckoutSessionCompleted, map[string]string{"id": "cs_3"}))
	if !errors.Is(err, ErrNoEmail) {
		t.Fatalf("expected ErrNoEmail, got %v", err)
	}
}

func TestSubscriptionDeletedRevokes(t *testing.T) {
	tests := []struct {
		name      string
		obj       map[string]interface{}
		customers CustomerEmailLookup
		wantEmail string
		wantErr   error
	}{
		{
			name:      "metadata email",
			obj:       map[string]interface{}{"id": "sub_1", "metadata": map[string]string{"email": "ana@example.com"}, "customer": "cus_1"},
			wantEmail: "ana@example.com",
		},
		{
			name:      "customer lookup",
			obj:       map[string]interface{}{"id": "sub_2", "customer": "cus_2"},
			customers: fakeCustomers{"cus_2": "cy@example.com"},
			wantEmail: "cy@example.com",
		},
		{
			name:    "no lookup configured",
			obj:     map[string]interface{}{"id": "sub_3", "customer": "cus_3"},
			wantErr: ErrNoEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{known: map[string]bool{tt.wantEmail: true}}
			uc := NewBillingUsecase(users, tt.customers)
			out, err := uc.HandleEvent(context.Background(), event(t, stripe.EventTypeCustomerSubscriptionDeleted, tt.obj))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleEvent: %v", err)
			}
			if out.Action != OutcomeRevoked || len(users.revoked) != 1 || users.revoked[0] != tt.wantEmail {
				t.Fatalf("unexpected outcome %+v revoked=%v", out, users.revoked)
			}
		})
	}
}

func TestUnhandledEventIgnored(t *testing.T) {
	users := &fakeUsers{}
	out, err := NewBillingUsecase(users, nil).HandleEvent(context.Background(), event(t, "invoice.paid", map[string]string{"id": "in_1"}))
	if err != nil || out.Action != OutcomeIgnored {
		t.Fatalf("expected ignored, got %+v %v", out, err)
	}
	if len(users.granted)+len(users.revoked) != 0 {
		t.Fatal("unhandled event must not touch users")
	}
}
