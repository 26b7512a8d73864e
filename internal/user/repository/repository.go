package repository

import (
	"context"

	"fitai-backend/internal/user/domain"
)

// UserRepository defines the interface for user document access
type UserRepository interface {
	// FindByID returns nil, nil when the user does not exist
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByEmail returns nil, nil when no user has the email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	Create(ctx context.Context, user *domain.User) error

	// UpdateFields merges the given top-level fields into the user document
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	Delete(ctx context.Context, id string) error

	// ListReminderCandidates returns users with workout reminders switched on
	ListReminderCandidates(ctx context.Context) ([]*domain.User, error)
}
