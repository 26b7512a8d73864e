// Package lifecycle tracks a client's notification permission, obtains a push
// token once permission is granted, and hands it to a registrar for
// persistence. Every environment dependency sits behind an interface so the
// permission logic runs without a browser or a cloud SDK.
//
// All failures degrade to "notifications unavailable": callers get a zero
// result and a log line, never an error.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/pkg/logging"
)

var (
	ErrUnsupported      = errors.New("notifications unsupported in this environment")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrProvider         = errors.New("push provider error")
	ErrPersistence      = errors.New("push token persistence error")
)

// DefaultServiceWorkerURL is the FCM worker script served by the web app
const DefaultServiceWorkerURL = "/firebase-messaging-sw.js"

// Status is the result of CheckStatus
type Status struct {
	Supported  bool       `json:"supported"`
	Permission Permission `json:"permission"`
}

// Config carries the provider parameters
type Config struct {
	VapidKey         string
	ServiceWorkerURL string
	Platform         domain.Platform
}

// Manager bridges permission, messaging and token persistence. It holds no
// lock: overlapping RequestPermission calls may register the same token twice.
type Manager struct {
	cfg         Config
	permissions PermissionAPI
	workers     ServiceWorkers
	messaging   Messaging
	registrar   TokenRegistrar
	log         *zerolog.Logger
}

// NewManager creates a Manager. Any nil capability makes the environment unsupported.
func NewManager(cfg Config, permissions PermissionAPI, workers ServiceWorkers, messaging Messaging, registrar TokenRegistrar) *Manager {
	if cfg.ServiceWorkerURL == "" {
		cfg.ServiceWorkerURL = DefaultServiceWorkerURL
	}
	if cfg.Platform == "" {
		cfg.Platform = domain.PlatformWeb
	}
	return &Manager{
		cfg:         cfg,
		permissions: permissions,
		workers:     workers,
		messaging:   messaging,
		registrar:   registrar,
		log:         logging.Component("lifecycle"),
	}
}

func (m *Manager) supported() bool {
	return m.permissions != nil && m.workers != nil && m.messaging != nil && m.permissions.Supported()
}

// CheckStatus reports support and the current permission. It has no side effects.
func (m *Manager) CheckStatus() Status {
	if !m.supported() {
		return Status{Supported: false, Permission: PermissionUnsupported}
	}
	return Status{Supported: true, Permission: m.permissions.Permission()}
}

// RequestPermission prompts when needed and, once granted, registers the
// service worker, fetches a token and persists it for userID. It returns the
// token and true only once the token is persisted, or "" and false otherwise.
// An empty userID or a nil registrar fails before any prompt.
func (m *Manager) RequestPermission(ctx context.Context, userID string) (token string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("request permission aborted")
			token, ok = "", false
		}
	}()

	token, err := m.requestPermission(ctx, userID)
	if err != nil {
		evt := m.log.Warn()
		if errors.Is(err, ErrProvider) || errors.Is(err, ErrPersistence) {
			evt = m.log.Error()
		}
		evt.Err(err).Str("user_id", userID).Msg("notifications unavailable")
		return "", false
	}
	return token, true
}

func (m *Manager) requestPermission(ctx context.Context, userID string) (string, error) {
	if !m.supported() {
		return "", ErrUnsupported
	}
	if userID == "" || m.registrar == nil {
		return "", fmt.Errorf("%w: no user or registrar to persist the token", ErrPersistence)
	}

	perm := m.permissions.Permission()
	if perm == PermissionDefault {
		var err error
		perm, err = m.permissions.Request(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: permission prompt: %v", ErrProvider, err)
		}
	}
	if perm != PermissionGranted {
		return "", fmt.Errorf("%w (state %s)", ErrPermissionDenied, perm)
	}

	reg, err := m.workers.Register(ctx, m.cfg.ServiceWorkerURL)
	if err != nil {
		return "", fmt.Errorf("%w: register service worker: %v", ErrProvider, err)
	}

	token, err := m.messaging.Token(ctx, m.cfg.VapidKey, reg)
	if err != nil {
		return "", fmt.Errorf("%w: get token: %v", ErrProvider, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: provider returned an empty token", ErrProvider)
	}

	if err := m.registrar.RegisterToken(ctx, userID, domain.PushToken{Token: token, Platform: m.cfg.Platform}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	m.log.Info().Str("user_id", userID).Msg("push token obtained")
	return token, nil
}

// OnForegroundMessage installs handler for pushes received while the app is
// active. It returns a func that removes the handler; calling it more than
// once is safe.
func (m *Manager) OnForegroundMessage(handler func(Message)) func() {
	if handler == nil || !m.supported() {
		return func() {}
	}

	unsubscribe := m.messaging.OnMessage(handler)
	var once sync.Once
	return func() {
		once.Do(func() {
			if unsubscribe != nil {
				unsubscribe()
			}
		})
	}
}

// ShowLocalNotification displays a notification through the active service
// worker. It does nothing without granted permission or an active worker.
func (m *Manager) ShowLocalNotification(ctx context.Context, title string, opts NotificationOptions) {
	if !m.supported() || m.permissions.Permission() != PermissionGranted {
		return
	}
	reg, ok := m.workers.Active(ctx)
	if !ok || reg == nil {
		return
	}
	if err := reg.ShowNotification(ctx, title, opts); err != nil {
		m.log.Warn().Err(fmt.Errorf("%w: %v", ErrProvider, err)).Msg("failed to show local notification")
	}
}
