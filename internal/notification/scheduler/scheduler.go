package scheduler

import (
	"context"
	"sync"
	"time"

	"fitai-backend/internal/notification/domain"
	userdomain "fitai-backend/internal/user/domain"
	userrepo "fitai-backend/internal/user/repository"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/metrics"
)

// Notifier delivers a notification to all of a user's devices
type Notifier interface {
	SendToUser(ctx context.Context, userID string, n domain.Notification) (*domain.DeliveryReport, error)
}

// WorkoutReminderScheduler sends the daily workout reminder at each user's chosen hour
type WorkoutReminderScheduler struct {
	userRepo userrepo.UserRepository
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWorkoutReminderScheduler creates a new scheduler
func NewWorkoutReminderScheduler(userRepo userrepo.UserRepository, notifier Notifier, interval time.Duration) *WorkoutReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &WorkoutReminderScheduler{
		userRepo: userRepo,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *WorkoutReminderScheduler) Start() {
	log := logging.Component("scheduler")
	log.Info().Dur("interval", s.interval).Msg("starting workout reminder scheduler")

	go func() {
		// Run immediately on start
		s.RunOnce(context.Background())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				log.Info().Msg("scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *WorkoutReminderScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// RunOnce sends every reminder due now and returns how many were dispatched
func (s *WorkoutReminderScheduler) RunOnce(ctx context.Context) int {
	log := logging.Component("scheduler")

	users, err := s.userRepo.ListReminderCandidates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error listing reminder candidates")
		return 0
	}

	now := s.now()
	sent := 0
	for _, u := range users {
		date, due := reminderDue(u, now)
		if !due {
			continue
		}

		if _, err := s.notifier.SendToUser(ctx, u.ID, workoutReminder(u)); err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("error sending workout reminder")
		} else {
			sent++
			metrics.IncReminderSent()
		}

		// Mark the day as handled regardless of success to avoid spamming
		if err := s.userRepo.UpdateFields(ctx, u.ID, map[string]interface{}{"lastReminderDate": date}); err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("error marking reminder as sent")
		}
	}

	if sent > 0 {
		log.Info().Int("sent", sent).Msg("workout reminders dispatched")
	}
	return sent
}

// reminderDue reports whether u should get a reminder at now, along with the
// user's local date used to send at most one per day.
func reminderDue(u *userdomain.User, now time.Time) (string, bool) {
	prefs := u.NotificationPrefs
	if !prefs.WorkoutReminders {
		return "", false
	}

	local := now.In(u.Location())
	date := local.Format("2006-01-02")
	if local.Hour() != prefs.ReminderHour || u.LastReminderDate == date {
		return date, false
	}

	weekday := int(local.Weekday())
	for _, d := range prefs.ReminderDays {
		if d == weekday {
			return date, true
		}
	}
	return date, false
}

func workoutReminder(u *userdomain.User) domain.Notification {
	title := "Time to train 💪"
	if u.DisplayName != "" {
		title = "Time to train, " + u.DisplayName + " 💪"
	}
	return domain.Notification{
		Type:        "workout_reminder",
		Title:       title,
		Body:        "Your workout is waiting. Tap to start today's session.",
		ClickAction: "/workout",
	}
}
