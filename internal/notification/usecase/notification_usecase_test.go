package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/internal/notification/repository"
	"fitai-backend/pkg/fcm"
)

type fakeSender struct {
	calls        int
	lastTokens   []string
	lastData     fcm.NotificationData
	unregistered []string
	err          error
}

func (f *fakeSender) SendToDevices(_ context.Context, tokens []string, n fcm.NotificationData) (*fcm.SendResult, error) {
	f.calls++
	f.lastTokens = tokens
	f.lastData = n
	if f.err != nil {
		return nil, f.err
	}
	return &fcm.SendResult{
		SuccessCount: len(tokens) - len(f.unregistered),
		FailureCount: len(f.unregistered),
		Unregistered: f.unregistered,
	}, nil
}

type fakeInApp struct{ sessions map[string]int }

func (f fakeInApp) SendToUser(userID string, _ domain.Notification) int { return f.sessions[userID] }

func TestRegisterTokenKeepsCreationTime(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	uc := NewNotificationUsecase(repo, nil, nil).(*notificationUsecase)

	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return t0 }
	if err := uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: " tok-1 "}); err != nil {
		t.Fatalf("RegisterToken: %v", err)
	}

	t1 := t0.Add(24 * time.Hour)
	uc.now = func() time.Time { return t1 }
	if err := uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: "tok-1"}); err != nil {
		t.Fatalf("second RegisterToken: %v", err)
	}

	tokens, _ := repo.GetTokensByUserID(context.Background(), "u1")
	if len(tokens) != 1 {
		t.Fatalf("expected one token document per (user, token), got %d", len(tokens))
	}
	got := tokens[0]
	if !got.CreatedAt.Equal(t0) || !got.LastActiveAt.Equal(t1) {
		t.Fatalf("expected createdAt %s lastActive %s, got %+v", t0, t1, got)
	}
	if got.Platform != domain.PlatformWeb {
		t.Fatalf("expected default platform web, got %q", got.Platform)
	}
	if !repo.HasNotifications("u1") {
		t.Fatal("expected hasNotifications to be set")
	}
}

func TestRegisterTokenRejectsEmpty(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	uc := NewNotificationUsecase(repo, nil, nil)
	if err := uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: "  "}); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
	if repo.Writes != 0 {
		t.Fatal("expected no writes")
	}
}

func TestRegisterTokenRejectsMalformed(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	uc := NewNotificationUsecase(repo, nil, nil)
	for _, tok := range []string{"abc/def", strings.Repeat("x", MaxTokenLength+1)} {
		if err := uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: tok}); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %d-byte token, got %v", len(tok), err)
		}
	}
	if err := uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: strings.Repeat("x", MaxTokenLength)}); err != nil {
		t.Fatalf("token at the limit: %v", err)
	}
	if repo.Writes != 1 {
		t.Fatalf("expected one write, got %d", repo.Writes)
	}
}

func TestUnregisterLastTokenClearsFlag(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	uc := NewNotificationUsecase(repo, nil, nil)
	ctx := context.Background()
	_ = uc.RegisterToken(ctx, "u1", domain.PushToken{Token: "a"})
	_ = uc.RegisterToken(ctx, "u1", domain.PushToken{Token: "b"})

	if err := uc.UnregisterToken(ctx, "u1", "a"); err != nil {
		t.Fatal(err)
	}
	if !repo.HasNotifications("u1") {
		t.Fatal("flag should stay while a token remains")
	}
	if err := uc.UnregisterToken(ctx, "u1", "b"); err != nil {
		t.Fatal(err)
	}
	if repo.HasNotifications("u1") {
		t.Fatal("flag should be cleared with the last token")
	}
}

func TestSendToUserPrunesUnregistered(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	sender := &fakeSender{unregistered: []string{"stale"}}
	uc := NewNotificationUsecase(repo, sender, fakeInApp{sessions: map[string]int{"u1": 2}})
	ctx := context.Background()
	_ = uc.RegisterToken(ctx, "u1", domain.PushToken{Token: "fresh"})
	_ = uc.RegisterToken(ctx, "u1", domain.PushToken{Token: "stale"})

	report, err := uc.SendToUser(ctx, "u1", domain.Notification{
		Type:        "workout_reminder",
		Title:       "Leg day",
		ClickAction: "/workouts",
		Data:        map[string]string{"plan": "p1"},
	})
	if err != nil {
		t.Fatalf("SendToUser: %v", err)
	}
	if report.Devices != 2 || report.Sent != 1 || report.Failed != 1 || report.Pruned != 1 || report.Sessions != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if sender.lastData.Data["type"] != "workout_reminder" || sender.lastData.Data["click_action"] != "/workouts" || sender.lastData.Data["plan"] != "p1" {
		t.Fatalf("unexpected data payload %v", sender.lastData.Data)
	}

	left, _ := repo.GetTokensByUserID(ctx, "u1")
	if len(left) != 1 || left[0].Token != "fresh" {
		t.Fatalf("expected only the fresh token to remain, got %+v", left)
	}
	if !repo.HasNotifications("u1") {
		t.Fatal("flag should remain while a valid token exists")
	}
}

func TestSendToUserWithoutTokensSkipsProvider(t *testing.T) {
	sender := &fakeSender{}
	uc := NewNotificationUsecase(repository.NewMemoryTokenRepository(nil), sender, nil)

	report, err := uc.SendToUser(context.Background(), "u1", domain.Notification{Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if sender.calls != 0 || report.Devices != 0 {
		t.Fatalf("expected provider to be skipped, calls=%d report=%+v", sender.calls, report)
	}
}

func TestSendToUserProviderError(t *testing.T) {
	repo := repository.NewMemoryTokenRepository(nil)
	uc := NewNotificationUsecase(repo, &fakeSender{err: errors.New("quota")}, nil)
	_ = uc.RegisterToken(context.Background(), "u1", domain.PushToken{Token: "a"})

	if _, err := uc.SendToUser(context.Background(), "u1", domain.Notification{Title: "x"}); err == nil {
		t.Fatal("expected provider error to surface")
	}
	left, _ := repo.GetTokensByUserID(context.Background(), "u1")
	if len(left) != 1 {
		t.Fatal("tokens must not be pruned on a provider-level error")
	}
}
