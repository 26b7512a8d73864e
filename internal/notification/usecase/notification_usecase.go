package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/internal/notification/repository"
	"fitai-backend/pkg/fcm"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/metrics"
)

// notificationUsecase implements NotificationUsecase interface
type notificationUsecase struct {
	tokenRepo repository.PushTokenRepository
	sender    PushSender
	inApp     InAppNotifier
	now       func() time.Time
}

// NewNotificationUsecase creates a new instance of notificationUsecase.
// sender and inApp may be nil; the matching delivery channel is then skipped.
func NewNotificationUsecase(tokenRepo repository.PushTokenRepository, sender PushSender, inApp InAppNotifier) NotificationUsecase {
	return &notificationUsecase{
		tokenRepo: tokenRepo,
		sender:    sender,
		inApp:     inApp,
		now:       time.Now,
	}
}

func (u *notificationUsecase) RegisterToken(ctx context.Context, userID string, token domain.PushToken) error {
	token.Token = strings.TrimSpace(token.Token)
	if token.Token == "" {
		return ErrEmptyToken
	}
	if len(token.Token) > MaxTokenLength || strings.Contains(token.Token, "/") {
		return ErrInvalidToken
	}
	if token.Platform == "" {
		token.Platform = domain.PlatformWeb
	}
	token.UserID = userID

	now := u.now()
	token.CreatedAt = now
	token.LastActiveAt = now
	// A re-registration keeps the original creation time
	if existing, err := u.tokenRepo.GetTokensByUserID(ctx, userID); err == nil {
		for _, t := range existing {
			if t.Token == token.Token && !t.CreatedAt.IsZero() {
				token.CreatedAt = t.CreatedAt
			}
		}
	}

	if err := u.tokenRepo.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("save push token: %w", err)
	}
	metrics.IncTokenRegistration()
	logging.Component("notification").Info().Str("user_id", userID).Str("platform", string(token.Platform)).Msg("push token registered")
	return nil
}

func (u *notificationUsecase) UnregisterToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if err := u.tokenRepo.DeleteToken(ctx, userID, token); err != nil {
		return fmt.Errorf("delete push token: %w", err)
	}

	remaining, err := u.tokenRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("list push tokens: %w", err)
	}
	if len(remaining) == 0 {
		if err := u.tokenRepo.SetHasNotifications(ctx, userID, false); err != nil {
			return fmt.Errorf("clear notification flag: %w", err)
		}
	}
	return nil
}

func (u *notificationUsecase) ListTokens(ctx context.Context, userID string) ([]domain.PushToken, error) {
	return u.tokenRepo.GetTokensByUserID(ctx, userID)
}

func (u *notificationUsecase) SendToUser(ctx context.Context, userID string, n domain.Notification) (*domain.DeliveryReport, error) {
	log := logging.Component("notification")
	report := &domain.DeliveryReport{}

	if u.inApp != nil {
		report.Sessions = u.inApp.SendToUser(userID, n)
	}

	if u.sender == nil {
		log.Debug().Str("user_id", userID).Msg("push sender not configured, in-app delivery only")
		return report, nil
	}

	tokens, err := u.tokenRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("get push tokens for %s: %w", userID, err)
	}
	report.Devices = len(tokens)
	if len(tokens) == 0 {
		log.Debug().Str("user_id", userID).Msg("no push tokens, skipping push")
		return report, nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}
	if n.ClickAction != "" {
		data["click_action"] = n.ClickAction
	}

	result, err := u.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title:       n.Title,
		Body:        n.Body,
		ImageURL:    n.ImageURL,
		Data:        data,
		ClickAction: n.ClickAction,
	})
	if err != nil {
		return report, fmt.Errorf("send push to %s: %w", userID, err)
	}
	report.Sent = result.SuccessCount
	report.Failed = result.FailureCount
	metrics.ObservePushSends(result.SuccessCount, result.FailureCount)

	// Cleanup tokens the provider no longer recognizes
	for _, token := range result.Unregistered {
		if err := u.tokenRepo.DeleteToken(ctx, userID, token); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to prune push token")
			continue
		}
		report.Pruned++
	}
	if report.Pruned > 0 {
		metrics.AddTokensPruned(report.Pruned)
		if report.Pruned == len(tokens) {
			if err := u.tokenRepo.SetHasNotifications(ctx, userID, false); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear notification flag")
			}
		}
	}

	log.Info().Str("user_id", userID).Int("sent", report.Sent).Int("failed", report.Failed).Int("pruned", report.Pruned).Msg("push delivered")
	return report, nil
}
