package domain

import "time"

// Platform tags the client that registered a token
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// PushToken is an FCM registration stored at users/{uid}/fcmTokens/{token}
type PushToken struct {
	Token        string    `json:"-" firestore:"token"` // Don't expose token in JSON
	UserID       string    `json:"userId" firestore:"userId"`
	Platform     Platform  `json:"platform" firestore:"platform"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt" firestore:"lastActiveAt"`
}

// Notification is a message addressed to every device of a user
type Notification struct {
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	ClickAction string            `json:"clickAction,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

// DeliveryReport summarizes one SendToUser call
type DeliveryReport struct {
	Devices  int `json:"devices"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
	Pruned   int `json:"pruned"`
	Sessions int `json:"sessions"` // open in-app sessions that received it
}
