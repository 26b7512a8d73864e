package usecase

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"

	"fitai-backend/internal/privacy/domain"
)

var ErrUserNotFound = errors.New("user not found")

// PrivacyUsecase covers data export and account erasure
type PrivacyUsecase interface {
	Export(ctx context.Context, userID string) (*domain.Export, error)
	// DeleteAccount attempts every step and joins the failures
	DeleteAccount(ctx context.Context, userID string) (*domain.DeletionReport, error)
}

// AuthUserDeleter removes the sign-in account
type AuthUserDeleter interface {
	DeleteUser(ctx context.Context, uid string) error
}

// firebaseDeleter treats an already-missing Firebase Auth user as deleted
type firebaseDeleter struct {
	client *auth.Client
}

func NewFirebaseAuthDeleter(client *auth.Client) AuthUserDeleter {
	return &firebaseDeleter{client: client}
}

func (d *firebaseDeleter) DeleteUser(ctx context.Context, uid string) error {
	err := d.client.DeleteUser(ctx, uid)
	if err != nil && auth.IsUserNotFound(err) {
		return nil
	}
	return err
}
