package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitai-backend/internal/notification/domain"
	userdomain "fitai-backend/internal/user/domain"
	userrepo "fitai-backend/internal/user/repository"
)

type recordingNotifier struct {
	sent []string
	err  error
}

func (r *recordingNotifier) SendToUser(_ context.Context, userID string, _ domain.Notification) (*domain.DeliveryReport, error) {
	r.sent = append(r.sent, userID)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.DeliveryReport{Devices: 1, Sent: 1}, nil
}

func TestReminderDue(t *testing.T) {
	// Wednesday 2024-05-01 18:30 UTC
	now := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	base := userdomain.User{
		ID:       "u1",
		Timezone: "UTC",
		NotificationPrefs: userdomain.NotificationPrefs{
			ReminderHour:     18,
			ReminderDays:     []int{1, 3, 5},
			WorkoutReminders: true,
		},
	}

	tests := []struct {
		name   string
		mutate func(u *userdomain.User)
		want   bool
	}{
		{"due", func(u *userdomain.User) {}, true},
		{"toggle off", func(u *userdomain.User) { u.NotificationPrefs.WorkoutReminders = false }, false},
		{"wrong hour", func(u *userdomain.User) { u.NotificationPrefs.ReminderHour = 7 }, false},
		{"wrong day", func(u *userdomain.User) { u.NotificationPrefs.ReminderDays = []int{0, 6} }, false},
		{"already sent today", func(u *userdomain.User) { u.LastReminderDate = "2024-05-01" }, false},
		{"sent yesterday", func(u *userdomain.User) { u.LastReminderDate = "2024-04-30" }, true},
		// 18:30 UTC is 20:30 in Madrid (CEST)
		{"timezone shifts hour", func(u *userdomain.User) { u.Timezone = "Europe/Madrid"; u.NotificationPrefs.ReminderHour = 20 }, true},
		{"bad timezone falls back to utc", func(u *userdomain.User) { u.Timezone = "Nowhere/Land" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base
			u.NotificationPrefs.ReminderDays = append([]int(nil), base.NotificationPrefs.ReminderDays...)
			tt.mutate(&u)
			if _, got := reminderDue(&u, now); got != tt.want {
				t.Fatalf("reminderDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunOnceSendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewMemoryUserRepository()
	prefs := userdomain.NotificationPrefs{ReminderHour: 18, ReminderDays: []int{3}, WorkoutReminders: true}
	_ = repo.Create(ctx, &userdomain.User{ID: "due", HasNotifications: true, NotificationPrefs: prefs})
	_ = repo.Create(ctx, &userdomain.User{ID: "no-tokens", HasNotifications: false, NotificationPrefs: prefs})
	_ = repo.Create(ctx, &userdomain.User{ID: "off", HasNotifications: true})

	notifier := &recordingNotifier{}
	s := NewWorkoutReminderScheduler(repo, notifier, time.Minute)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 18, 5, 0, 0, time.UTC) }

	if n := s.RunOnce(ctx); n != 1 {
		t.Fatalf("expected 1 reminder, got %d", n)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "due" {
		t.Fatalf("unexpected recipients %v", notifier.sent)
	}

	s.now = func() time.Time { return time.Date(2024, 5, 1, 18, 45, 0, 0, time.UTC) }
	if n := s.RunOnce(ctx); n != 0 {
		t.Fatalf("expected no second reminder the same day, got %d", n)
	}
}

func TestRunOnceMarksDayOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewMemoryUserRepository()
	_ = repo.Create(ctx, &userdomain.User{ID: "u1", HasNotifications: true, NotificationPrefs: userdomain.NotificationPrefs{ReminderHour: 9, ReminderDays: []int{3}, WorkoutReminders: true}})

	notifier := &recordingNotifier{err: errors.New("fcm down")}
	s := NewWorkoutReminderScheduler(repo, notifier, time.Minute)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	if n := s.RunOnce(ctx); n != 0 {
		t.Fatalf("failed sends are not counted, got %d", n)
	}
	u, _ := repo.FindByID(ctx, "u1")
	if u.LastReminderDate != "2024-05-01" {
		t.Fatalf("expected the day to be marked, got %q", u.LastReminderDate)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewWorkoutReminderScheduler(userrepo.NewMemoryUserRepository(), &recordingNotifier{}, time.Hour)
	s.Start()
	s.Stop()
	s.Stop()
}
