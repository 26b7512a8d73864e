package usecase

import (
	"context"
	"errors"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/pkg/fcm"
)

var (
	ErrEmptyToken   = errors.New("push token is required")
	ErrInvalidToken = errors.New("push token is malformed")
)

// MaxTokenLength bounds a push token. Tokens are used as Firestore document
// IDs, which cannot exceed 1500 bytes or contain a slash.
const MaxTokenLength = 1500

// NotificationUsecase defines the interface for push token and delivery logic
type NotificationUsecase interface {
	// RegisterToken persists a token for the user and marks the user opted in
	RegisterToken(ctx context.Context, userID string, token domain.PushToken) error

	// UnregisterToken removes one token. The user is marked opted out when none remain.
	UnregisterToken(ctx context.Context, userID, token string) error

	ListTokens(ctx context.Context, userID string) ([]domain.PushToken, error)

	// SendToUser pushes to every registered device and every open in-app session
	SendToUser(ctx context.Context, userID string, n domain.Notification) (*domain.DeliveryReport, error)
}

// PushSender is the push-messaging provider (FCM)
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.SendResult, error)
}

// InAppNotifier delivers to sessions that currently have the app open
type InAppNotifier interface {
	SendToUser(userID string, n domain.Notification) int
}
