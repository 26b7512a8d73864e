package domain

import "time"

// Role distinguishes coaching accounts from regular athletes
type Role string

const (
	RoleStudent Role = "student"
	RoleCoach   Role = "coach"
)

// Subscription statuses written to the user record
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionNone     = "none"
)

// NotificationPrefs holds the per-user reminder schedule
type NotificationPrefs struct {
	ReminderHour     int   `json:"reminderHour" firestore:"reminderHour"`         // 0-23, local time
	ReminderDays     []int `json:"reminderDays" firestore:"reminderDays"`         // 0=Sunday..6=Saturday
	WorkoutReminders bool  `json:"workoutReminders" firestore:"workoutReminders"` // master toggle
}

// User is the account document stored at users/{id}
type User struct {
	ID                 string            `json:"id" firestore:"-"`
	Email              string            `json:"email" firestore:"email"`
	DisplayName        string            `json:"displayName" firestore:"displayName"`
	IsPremium          bool              `json:"isPremium" firestore:"isPremium"`
	SubscriptionStatus string            `json:"subscriptionStatus" firestore:"subscriptionStatus"`
	NotificationPrefs  NotificationPrefs `json:"notificationPrefs" firestore:"notificationPrefs"`
	Timezone           string            `json:"timezone" firestore:"timezone"`
	LastPushToken      string            `json:"-" firestore:"lastPushToken,omitempty"`
	HasNotifications   bool              `json:"hasNotifications" firestore:"hasNotifications"`
	LastReminderDate   string            `json:"-" firestore:"lastReminderDate,omitempty"` // YYYY-MM-DD in user's timezone
	Role               Role              `json:"role" firestore:"role"`
	CoachID            string            `json:"coachId,omitempty" firestore:"coachId,omitempty"`
	CreatedAt          time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultNotificationPrefs are applied when a user record is first created
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		ReminderHour:     18,
		ReminderDays:     []int{1, 3, 5},
		WorkoutReminders: false,
	}
}

// Location resolves the user's timezone, falling back to UTC
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
