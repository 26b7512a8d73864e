package repository

import (
	"context"

	"fitai-backend/internal/notification/domain"
)

// PushTokenRepository defines the interface for push token operations
type PushTokenRepository interface {
	// SaveToken writes the token document and merges hasNotifications/lastPushToken
	// into the owning user document. Re-saving an existing token rewrites it.
	SaveToken(ctx context.Context, token domain.PushToken) error
	GetTokensByUserID(ctx context.Context, userID string) ([]domain.PushToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
	DeleteTokensByUserID(ctx context.Context, userID string) (int, error)
	// SetHasNotifications merges the user's opt-in flag
	SetHasNotifications(ctx context.Context, userID string, enabled bool) error
}
