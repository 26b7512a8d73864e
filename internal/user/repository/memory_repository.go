package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitai-backend/internal/user/domain"
)

// memoryUserRepository keeps users in process memory. Used for local
// development without Firestore and as the test double for use cases.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *memoryUserRepository) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.ID = id
	applyFields(&u, fields)
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) ListReminderCandidates(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.NotificationPrefs.WorkoutReminders && u.HasNotifications {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// applyFields mirrors a Firestore merge for the fields the application writes
func applyFields(u *domain.User, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "email":
			u.Email, _ = v.(string)
		case "displayName":
			u.DisplayName, _ = v.(string)
		case "isPremium":
			u.IsPremium, _ = v.(bool)
		case "subscriptionStatus":
			u.SubscriptionStatus, _ = v.(string)
		case "timezone":
			u.Timezone, _ = v.(string)
		case "lastPushToken":
			u.LastPushToken, _ = v.(string)
		case "hasNotifications":
			u.HasNotifications, _ = v.(bool)
		case "lastReminderDate":
			u.LastReminderDate, _ = v.(string)
		case "role":
			s, _ := v.(string)
			u.Role = domain.Role(s)
		case "coachId":
			u.CoachID, _ = v.(string)
		case "createdAt":
			u.CreatedAt, _ = v.(time.Time)
		case "notificationPrefs":
			prefs, _ := v.(map[string]interface{})
			if h, ok := prefs["reminderHour"].(int); ok {
				u.NotificationPrefs.ReminderHour = h
			}
			if d, ok := prefs["reminderDays"].([]int); ok {
				u.NotificationPrefs.ReminderDays = append([]int(nil), d...)
			}
			if w, ok := prefs["workoutReminders"].(bool); ok {
				u.NotificationPrefs.WorkoutReminders = w
			}
		}
	}
}

func cloneUser(u domain.User) *domain.User {
	u.NotificationPrefs.ReminderDays = append([]int(nil), u.NotificationPrefs.ReminderDays...)
	return &u
}
