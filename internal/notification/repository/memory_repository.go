package repository

import (
	"context"
	"sort"
	"sync"

	"fitai-backend/internal/notification/domain"
	userrepo "fitai-backend/internal/user/repository"
)

// MemoryTokenRepository keeps tokens in process memory, keyed by user then token.
// When a user repository is attached, the user-document merge is mirrored onto it.
type MemoryTokenRepository struct {
	mu      sync.RWMutex
	tokens  map[string]map[string]domain.PushToken
	enabled map[string]bool
	users   userrepo.UserRepository
	// Writes counts token documents written, including rewrites
	Writes int
}

// NewMemoryTokenRepository creates an empty in-memory PushTokenRepository. users may be nil.
func NewMemoryTokenRepository(users userrepo.UserRepository) *MemoryTokenRepository {
	return &MemoryTokenRepository{
		tokens:  make(map[string]map[string]domain.PushToken),
		enabled: make(map[string]bool),
		users:   users,
	}
}

func (r *MemoryTokenRepository) SaveToken(ctx context.Context, token domain.PushToken) error {
	r.mu.Lock()
	if r.tokens[token.UserID] == nil {
		r.tokens[token.UserID] = make(map[string]domain.PushToken)
	}
	r.tokens[token.UserID][token.Token] = token
	r.enabled[token.UserID] = true
	r.Writes++
	r.mu.Unlock()

	if r.users == nil {
		return nil
	}
	return r.users.UpdateFields(ctx, token.UserID, map[string]interface{}{
		"hasNotifications": true,
		"lastPushToken":    token.Token,
	})
}

func (r *MemoryTokenRepository) GetTokensByUserID(_ context.Context, userID string) ([]domain.PushToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.PushToken
	for _, t := range r.tokens[userID] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

func (r *MemoryTokenRepository) DeleteToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens[userID], token)
	return nil
}

func (r *MemoryTokenRepository) DeleteTokensByUserID(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.tokens[userID])
	delete(r.tokens, userID)
	return n, nil
}

func (r *MemoryTokenRepository) SetHasNotifications(ctx context.Context, userID string, enabled bool) error {
	r.mu.Lock()
	r.enabled[userID] = enabled
	r.mu.Unlock()

	if r.users == nil {
		return nil
	}
	fields := map[string]interface{}{"hasNotifications": enabled}
	if !enabled {
		fields["lastPushToken"] = ""
	}
	return r.users.UpdateFields(ctx, userID, fields)
}

// HasNotifications reports the last flag written for the user
func (r *MemoryTokenRepository) HasNotifications(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[userID]
}
