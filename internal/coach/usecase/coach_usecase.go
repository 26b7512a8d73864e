package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fitai-backend/internal/audit"
	"fitai-backend/internal/coach/domain"
	"fitai-backend/internal/coach/repository"
	notifdomain "fitai-backend/internal/notification/domain"
	userdomain "fitai-backend/internal/user/domain"
	userrepo "fitai-backend/internal/user/repository"
	"fitai-backend/pkg/logging"
)

const (
	inviteAlphabet   = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	inviteCodeLength = 6
	inviteTTL        = 7 * 24 * time.Hour
	maxCodeAttempts  = 5
)

type coachUsecase struct {
	coachRepo repository.CoachRepository
	userRepo  userrepo.UserRepository
	audit     audit.Recorder
	notifier  Notifier
	now       func() time.Time
	newCode   func() (string, error)
}

// NewCoachUsecase creates a new instance of coachUsecase. notifier may be nil.
func NewCoachUsecase(coachRepo repository.CoachRepository, userRepo userrepo.UserRepository, recorder audit.Recorder, notifier Notifier) CoachUsecase {
	return &coachUsecase{
		coachRepo: coachRepo,
		userRepo:  userRepo,
		audit:     recorder,
		notifier:  notifier,
		now:       time.Now,
		newCode:   generateCode,
	}
}

func (u *coachUsecase) CreateInvite(ctx context.Context, coachID string) (*domain.Invite, error) {
	coach, err := u.userRepo.FindByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if coach == nil || coach.Role != userdomain.RoleCoach {
		return nil, ErrNotCoach
	}

	now := u.now()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := u.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		invite := domain.Invite{
			Code:      code,
			CoachID:   coachID,
			CreatedAt: now,
			ExpiresAt: now.Add(inviteTTL),
		}
		err = u.coachRepo.CreateInvite(ctx, invite)
		if errors.Is(err, domain.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store invite: %w", err)
		}
		logging.Component("coach").Info().Str("coach_id", coachID).Time("expires_at", invite.ExpiresAt).Msg("invite created")
		return &invite, nil
	}
	return nil, fmt.Errorf("store invite: %w after %d attempts", domain.ErrCodeTaken, maxCodeAttempts)
}

func (u *coachUsecase) RedeemInvite(ctx context.Context, studentID, code string) (*domain.Link, error) {
	log := logging.Component("coach")
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != inviteCodeLength {
		return nil, domain.ErrInviteNotFound
	}

	link, err := u.coachRepo.Redeem(ctx, code, studentID, u.now())
	if err != nil {
		return nil, err
	}
	log.Info().Str("coach_id", link.CoachID).Str("student_id", studentID).Msg("student linked")

	if err := u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionCoachLinked,
		UserID: studentID,
		Actor:  studentID,
		Detail: link.CoachID,
	}); err != nil {
		log.Error().Err(err).Msg("failed to record audit entry")
	}

	if u.notifier != nil {
		name := "A new student"
		if student, err := u.userRepo.FindByID(ctx, studentID); err == nil && student != nil && student.DisplayName != "" {
			name = student.DisplayName
		}
		if _, err := u.notifier.SendToUser(ctx, link.CoachID, notifdomain.Notification{
			Type:        "coach_linked",
			Title:       "New student",
			Body:        name + " joined with your invite code.",
			ClickAction: "/coach/students",
			Data:        map[string]string{"studentId": studentID},
		}); err != nil {
			log.Warn().Err(err).Str("coach_id", link.CoachID).Msg("failed to notify coach")
		}
	}
	return link, nil
}

func (u *coachUsecase) ListStudents(ctx context.Context, coachID string) ([]domain.Member, error) {
	links, err := u.coachRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return u.members(ctx, links, func(l domain.Link) string { return l.StudentID })
}

func (u *coachUsecase) ListCoaches(ctx context.Context, studentID string) ([]domain.Member, error) {
	links, err := u.coachRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return u.members(ctx, links, func(l domain.Link) string { return l.CoachID })
}

func (u *coachUsecase) members(ctx context.Context, links []domain.Link, other func(domain.Link) string) ([]domain.Member, error) {
	members := make([]domain.Member, 0, len(links))
	for _, l := range links {
		m := domain.Member{UserID: other(l), LinkedAt: l.CreatedAt}
		user, err := u.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			m.DisplayName = user.DisplayName
			m.Email = user.Email
		}
		members = append(members, m)
	}
	return members, nil
}

func (u *coachUsecase) Unlink(ctx context.Context, actorID, coachID, studentID string) error {
	if actorID != coachID && actorID != studentID {
		return ErrForbidden
	}
	link, err := u.coachRepo.GetLink(ctx, coachID, studentID)
	if err != nil {
		return err
	}
	if link == nil {
		return ErrLinkNotFound
	}
	if err := u.coachRepo.DeleteLink(ctx, coachID, studentID); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	log := logging.Component("coach")
	log.Info().Str("coach_id", coachID).Str("student_id", studentID).Str("actor", actorID).Msg("link removed")
	if err := u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionCoachUnlinked,
		UserID: studentID,
		Actor:  actorID,
		Detail: coachID,
	}); err != nil {
		log.Error().Err(err).Msg("failed to record audit entry")
	}
	return nil
}

func generateCode() (string, error) {
	limit := big.NewInt(int64(len(inviteAlphabet)))
	b := make([]byte, inviteCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = inviteAlphabet[n.Int64()]
	}
	return string(b), nil
}
