package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"fitai-backend/internal/audit"
	authdomain "fitai-backend/internal/auth/domain"
	"fitai-backend/internal/user/domain"
	"fitai-backend/internal/user/repository"
	"fitai-backend/pkg/logging"
)

const maxDisplayNameLength = 80

// userUsecase implements UserUsecase interface
type userUsecase struct {
	userRepo repository.UserRepository
	audit    audit.Recorder
}

// NewUserUsecase creates a new instance of userUsecase
func NewUserUsecase(userRepo repository.UserRepository, recorder audit.Recorder) UserUsecase {
	if recorder == nil {
		recorder = audit.NewLogRecorder()
	}
	return &userUsecase{
		userRepo: userRepo,
		audit:    recorder,
	}
}

func (u *userUsecase) GetProfile(ctx context.Context, identity authdomain.Identity) (*domain.User, error) {
	user, err := u.userRepo.FindByID(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return u.backfill(ctx, user, identity)
	}

	user = &domain.User{
		ID:                 identity.UID,
		Email:              strings.ToLower(identity.Email),
		DisplayName:        identity.DisplayName,
		SubscriptionStatus: domain.SubscriptionNone,
		NotificationPrefs:  domain.DefaultNotificationPrefs(),
		Timezone:           "UTC",
		Role:               domain.RoleStudent,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user record: %w", err)
	}
	logging.Component("user").Info().Str("user_id", user.ID).Msg("created user record")
	return user, nil
}

// backfill completes a record that other writers created before the first
// profile read, e.g. a token registration merging hasNotifications into users/{uid}
func (u *userUsecase) backfill(ctx context.Context, user *domain.User, identity authdomain.Identity) (*domain.User, error) {
	fields := map[string]interface{}{}
	if user.Email == "" && identity.Email != "" {
		fields["email"] = strings.ToLower(identity.Email)
	}
	if user.DisplayName == "" && identity.DisplayName != "" {
		fields["displayName"] = identity.DisplayName
	}
	if user.Role == "" {
		fields["role"] = string(domain.RoleStudent)
	}
	if user.Timezone == "" {
		fields["timezone"] = "UTC"
	}
	if user.SubscriptionStatus == "" {
		fields["subscriptionStatus"] = domain.SubscriptionNone
	}
	if user.CreatedAt.IsZero() {
		prefs := domain.DefaultNotificationPrefs()
		fields["notificationPrefs"] = map[string]interface{}{
			"reminderHour":     prefs.ReminderHour,
			"reminderDays":     prefs.ReminderDays,
			"workoutReminders": prefs.WorkoutReminders,
		}
		fields["createdAt"] = time.Now()
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := u.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("complete user record: %w", err)
	}
	logging.Component("user").Info().Str("user_id", user.ID).Int("fields", len(fields)).Msg("completed partial user record")

	completed, err := u.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		return nil, ErrUserNotFound
	}
	return completed, nil
}

func (u *userUsecase) UpdateSettings(ctx context.Context, userID string, req SettingsUpdate) (*domain.User, error) {
	fields, err := settingsFields(req)
	if err != nil {
		return nil, err
	}

	existing, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	if len(fields) > 0 {
		if err := u.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("update settings: %w", err)
		}
	}
	return u.userRepo.FindByID(ctx, userID)
}

// settingsFields validates the update and converts it to document fields
func settingsFields(req SettingsUpdate) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" || utf8.RuneCountInString(name) > maxDisplayNameLength {
			return nil, fmt.Errorf("%w: displayName must be 1-%d characters", ErrInvalidSettings, maxDisplayNameLength)
		}
		fields["displayName"] = name
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidSettings, *req.Timezone)
		}
		fields["timezone"] = *req.Timezone
	}

	if req.Role != nil {
		switch domain.Role(*req.Role) {
		case domain.RoleStudent, domain.RoleCoach:
			fields["role"] = *req.Role
		default:
			return nil, fmt.Errorf("%w: role must be student or coach", ErrInvalidSettings)
		}
	}

	if p := req.NotificationPrefs; p != nil {
		prefs := map[string]interface{}{}
		if p.ReminderHour != nil {
			if *p.ReminderHour < 0 || *p.ReminderHour > 23 {
				return nil, fmt.Errorf("%w: reminderHour must be between 0 and 23", ErrInvalidSettings)
			}
			prefs["reminderHour"] = *p.ReminderHour
		}
		if p.ReminderDays != nil {
			days, err := normalizeDays(p.ReminderDays)
			if err != nil {
				return nil, err
			}
			prefs["reminderDays"] = days
		}
		if p.WorkoutReminders != nil {
			prefs["workoutReminders"] = *p.WorkoutReminders
		}
		if len(prefs) > 0 {
			fields["notificationPrefs"] = prefs
		}
	}

	return fields, nil
}

// normalizeDays validates weekday numbers and returns them sorted without duplicates
func normalizeDays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: reminderDays must be 0 (Sunday) to 6 (Saturday)", ErrInvalidSettings)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (u *userUsecase) SetPremiumByEmail(ctx context.Context, email, actor string) (bool, error) {
	return u.setPremium(ctx, email, actor, true)
}

func (u *userUsecase) RevokePremiumByEmail(ctx context.Context, email, actor string) (bool, error) {
	return u.setPremium(ctx, email, actor, false)
}

func (u *userUsecase) setPremium(ctx context.Context, email, actor string, premium bool) (bool, error) {
	log := logging.Component("admin")
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", email, err)
	}
	if user == nil {
		log.Warn().Str("email", email).Msg("no user with this email, nothing updated")
		return false, nil
	}

	status := domain.SubscriptionActive
	action := audit.ActionPremiumGranted
	if !premium {
		status = domain.SubscriptionCanceled
		action = audit.ActionPremiumRevoked
	}

	if err := u.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"isPremium":          premium,
		"subscriptionStatus": status,
	}); err != nil {
		return false, fmt.Errorf("update subscription for %s: %w", user.ID, err)
	}
	log.Info().Str("user_id", user.ID).Bool("premium", premium).Msg("subscription updated")

	if err := u.audit.Record(ctx, audit.Entry{Action: action, UserID: user.ID, Actor: actor, Detail: email}); err != nil {
		log.Error().Err(err).Msg("failed to record audit entry")
	}
	return true, nil
}
