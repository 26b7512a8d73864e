package repository

import (
	"context"
	"time"

	"fitai-backend/internal/coach/domain"
)

// CoachRepository stores invites and coach/student links
type CoachRepository interface {
	// CreateInvite fails with domain.ErrCodeTaken when the code exists
	CreateInvite(ctx context.Context, invite domain.Invite) error
	GetInvite(ctx context.Context, code string) (*domain.Invite, error)

	// Redeem atomically validates the invite, creates the link, sets the
	// student's coachId and marks the invite used
	Redeem(ctx context.Context, code, studentID string, now time.Time) (*domain.Link, error)

	GetLink(ctx context.Context, coachID, studentID string) (*domain.Link, error)
	ListByCoach(ctx context.Context, coachID string) ([]domain.Link, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Link, error)

	// DeleteLink removes the link and clears the student's coachId when it points at the coach
	DeleteLink(ctx context.Context, coachID, studentID string) error

	// DeleteByUser removes every link the user is part of and every invite they
	// created. Students linked to the user as coach have their coachId cleared.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
