package usecase

import (
	"context"
	"errors"

	"fitai-backend/internal/coach/domain"
	notifdomain "fitai-backend/internal/notification/domain"
)

var (
	ErrNotCoach     = errors.New("only coach accounts can create invites")
	ErrForbidden    = errors.New("not a member of this link")
	ErrLinkNotFound = errors.New("link not found")
)

// CoachUsecase defines the coach/student linking logic
type CoachUsecase interface {
	CreateInvite(ctx context.Context, coachID string) (*domain.Invite, error)
	RedeemInvite(ctx context.Context, studentID, code string) (*domain.Link, error)
	ListStudents(ctx context.Context, coachID string) ([]domain.Member, error)
	ListCoaches(ctx context.Context, studentID string) ([]domain.Member, error)
	// Unlink may be called by either the coach or the student
	Unlink(ctx context.Context, actorID, coachID, studentID string) error
}

// Notifier tells the coach when a student joins
type Notifier interface {
	SendToUser(ctx context.Context, userID string, n notifdomain.Notification) (*notifdomain.DeliveryReport, error)
}
