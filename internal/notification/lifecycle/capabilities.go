package lifecycle

import (
	"context"

	"fitai-backend/internal/notification/domain"
)

// Permission mirrors the client's notification permission. The client owns it;
// the manager only reads it.
type Permission string

const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

// PermissionAPI is the client's notification permission prompt
type PermissionAPI interface {
	Supported() bool
	Permission() Permission
	// Request prompts the user. Clients that already decided return the stored answer.
	Request(ctx context.Context) (Permission, error)
}

// NotificationOptions configures a locally displayed notification
type NotificationOptions struct {
	Body               string            `json:"body,omitempty"`
	Icon               string            `json:"icon,omitempty"`
	Image              string            `json:"image,omitempty"`
	Tag                string            `json:"tag,omitempty"`
	Data               map[string]string `json:"data,omitempty"`
	RequireInteraction bool              `json:"requireInteraction,omitempty"`
}

// Registration is an installed service worker
type Registration interface {
	Scope() string
	ShowNotification(ctx context.Context, title string, opts NotificationOptions) error
}

// ServiceWorkers installs and looks up the background worker that receives pushes
type ServiceWorkers interface {
	Register(ctx context.Context, scriptURL string) (Registration, error)
	// Active returns the current registration, if one is active
	Active(ctx context.Context) (Registration, bool)
}

// Message is a push received while the app is in the foreground
type Message struct {
	MessageID    string              `json:"messageId"`
	From         string              `json:"from"`
	Notification domain.Notification `json:"notification"`
	Data         map[string]string   `json:"data,omitempty"`
}

// Messaging is the push-messaging SDK on the client
type Messaging interface {
	// Token issues a registration token bound to the worker and the VAPID key
	Token(ctx context.Context, vapidKey string, reg Registration) (string, error)
	// OnMessage installs a foreground handler and returns its removal func
	OnMessage(handler func(Message)) (unsubscribe func())
}

// TokenRegistrar persists an issued token against the user record
type TokenRegistrar interface {
	RegisterToken(ctx context.Context, userID string, token domain.PushToken) error
}
