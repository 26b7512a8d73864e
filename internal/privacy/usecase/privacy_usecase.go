package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"fitai-backend/internal/audit"
	coachdomain "fitai-backend/internal/coach/domain"
	coachrepo "fitai-backend/internal/coach/repository"
	notifrepo "fitai-backend/internal/notification/repository"
	"fitai-backend/internal/privacy/domain"
	userrepo "fitai-backend/internal/user/repository"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/mailer"
)

type privacyUsecase struct {
	userRepo  userrepo.UserRepository
	tokenRepo notifrepo.PushTokenRepository
	coachRepo coachrepo.CoachRepository
	authUsers AuthUserDeleter
	audit     audit.Recorder
	mailer    mailer.Mailer
	now       func() time.Time
}

// NewPrivacyUsecase creates a new instance of privacyUsecase. authUsers and
// mail may be nil when Firebase Auth or email are not configured.
func NewPrivacyUsecase(
	userRepo userrepo.UserRepository,
	tokenRepo notifrepo.PushTokenRepository,
	coachRepo coachrepo.CoachRepository,
	authUsers AuthUserDeleter,
	recorder audit.Recorder,
	mail mailer.Mailer,
) PrivacyUsecase {
	return &privacyUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		coachRepo: coachRepo,
		authUsers: authUsers,
		audit:     recorder,
		mailer:    mail,
		now:       time.Now,
	}
}

func (u *privacyUsecase) Export(ctx context.Context, userID string) (*domain.Export, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	tokens, err := u.tokenRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load push tokens: %w", err)
	}

	asCoach, err := u.coachRepo.ListByCoach(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load coach links: %w", err)
	}
	asStudent, err := u.coachRepo.ListByStudent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load coach links: %w", err)
	}
	links := append(append([]coachdomain.Link{}, asCoach...), asStudent...)

	if err := u.audit.Record(ctx, audit.Entry{Action: audit.ActionDataExported, UserID: userID, Actor: userID}); err != nil {
		logging.Component("privacy").Error().Err(err).Msg("failed to record audit entry")
	}

	return &domain.Export{
		GeneratedAt: u.now().UTC(),
		User:        user,
		PushTokens:  tokens,
		CoachLinks:  links,
	}, nil
}

func (u *privacyUsecase) DeleteAccount(ctx context.Context, userID string) (*domain.DeletionReport, error) {
	log := logging.Component("privacy")
	report := &domain.DeletionReport{}
	var errs []error

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("load user: %w", err))
	}

	if n, err := u.tokenRepo.DeleteTokensByUserID(ctx, userID); err != nil {
		errs = append(errs, fmt.Errorf("delete push tokens: %w", err))
	} else {
		report.PushTokens = n
	}

	if n, err := u.coachRepo.DeleteByUser(ctx, userID); err != nil {
		errs = append(errs, fmt.Errorf("delete coach records: %w", err))
	} else {
		report.CoachRecords = n
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		errs = append(errs, fmt.Errorf("delete user record: %w", err))
	} else {
		report.UserRecord = true
	}

	if u.authUsers != nil {
		if err := u.authUsers.DeleteUser(ctx, userID); err != nil {
			errs = append(errs, fmt.Errorf("delete auth user: %w", err))
		} else {
			report.AuthUser = true
		}
	}

	err = errors.Join(errs...)
	detail := "complete"
	if err != nil {
		detail = "partial: " + err.Error()
	}
	if recErr := u.audit.Record(ctx, audit.Entry{Action: audit.ActionAccountDeleted, UserID: userID, Actor: userID, Detail: detail}); recErr != nil {
		log.Error().Err(recErr).Msg("failed to record audit entry")
	}

	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("account deletion incomplete")
		return report, err
	}

	log.Info().Str("user_id", userID).Int("push_tokens", report.PushTokens).Int("coach_records", report.CoachRecords).Msg("account deleted")
	if user != nil && user.Email != "" && u.mailer != nil {
		u.mailer.SendAsync(user.Email, "Your FitAI account has been deleted", deletionEmail(user.DisplayName))
	}
	return report, nil
}

func deletionEmail(name string) string {
	greeting := "Hi,"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name) + ","
	}
	return "<p>" + greeting + "</p>" +
		"<p>Your FitAI account and all associated data have been permanently deleted, as you requested.</p>" +
		"<p>If you did not request this, reply to this email.</p>"
}
