package usecase

import (
	"context"
	"errors"

	authdomain "fitai-backend/internal/auth/domain"
	"fitai-backend/internal/user/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidSettings = errors.New("invalid settings")
)

// UserUsecase defines the interface for account and settings logic
type UserUsecase interface {
	// GetProfile returns the caller's record, creating it on first sight
	GetProfile(ctx context.Context, identity authdomain.Identity) (*domain.User, error)

	// UpdateSettings validates and merges a partial settings update
	UpdateSettings(ctx context.Context, userID string, req SettingsUpdate) (*domain.User, error)

	// SetPremiumByEmail flips the subscription flag on. Returns false without
	// writing anything when no user has the email.
	SetPremiumByEmail(ctx context.Context, email, actor string) (bool, error)

	// RevokePremiumByEmail flips the subscription flag off
	RevokePremiumByEmail(ctx context.Context, email, actor string) (bool, error)
}

// SettingsUpdate represents the fields that can be updated. Nil fields are left unchanged.
type SettingsUpdate struct {
	DisplayName       *string                  `json:"displayName,omitempty"`
	Timezone          *string                  `json:"timezone,omitempty"`
	Role              *string                  `json:"role,omitempty"`
	NotificationPrefs *NotificationPrefsUpdate `json:"notificationPrefs,omitempty"`
}

type NotificationPrefsUpdate struct {
	ReminderHour     *int  `json:"reminderHour,omitempty"`
	ReminderDays     []int `json:"reminderDays,omitempty"`
	WorkoutReminders *bool `json:"workoutReminders,omitempty"`
}
