package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "fitai-backend/internal/auth/domain"
)

func TestJWTRoundTrip(t *testing.T) {
	uc := NewJWTAuthUsecase("secret", time.Hour)
	token, err := uc.IssueToken(authdomain.Identity{UID: "u1", Email: "a@b.co", DisplayName: "A"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	id, err := uc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if id.UID != "u1" || id.Email != "a@b.co" || id.DisplayName != "A" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestJWTRejectsBadTokens(t *testing.T) {
	uc := NewJWTAuthUsecase("secret", time.Hour)
	other := NewJWTAuthUsecase("other-secret", time.Hour)
	expired := NewJWTAuthUsecase("secret", -time.Minute)

	foreign, _ := other.IssueToken(authdomain.Identity{UID: "u1"})
	stale, _ := expired.IssueToken(authdomain.Identity{UID: "u1"})
	noUser, _ := uc.IssueToken(authdomain.Identity{})

	for name, tok := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"expired":      stale,
		"missing user": noUser,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.ValidateToken(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
