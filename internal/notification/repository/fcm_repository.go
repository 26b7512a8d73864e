package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"fitai-backend/internal/notification/domain"
	userrepo "fitai-backend/internal/user/repository"
)

// TokensCollection is the per-user sub-collection of push tokens
const TokensCollection = "fcmTokens"

// firestoreTokenRepository implements PushTokenRepository on Firestore
type firestoreTokenRepository struct {
	client *firestore.Client
}

// NewFirestoreTokenRepository creates a new instance of firestoreTokenRepository
func NewFirestoreTokenRepository(client *firestore.Client) PushTokenRepository {
	return &firestoreTokenRepository{client: client}
}

func (r *firestoreTokenRepository) user(userID string) *firestore.DocumentRef {
	return r.client.Collection(userrepo.UsersCollection).Doc(userID)
}

// SaveToken uses the token value as document id, so one document exists per (user, token)
func (r *firestoreTokenRepository) SaveToken(ctx context.Context, token domain.PushToken) error {
	if _, err := r.user(token.UserID).Collection(TokensCollection).Doc(token.Token).Set(ctx, token); err != nil {
		return err
	}
	_, err := r.user(token.UserID).Set(ctx, map[string]interface{}{
		"hasNotifications": true,
		"lastPushToken":    token.Token,
		"updatedAt":        firestore.ServerTimestamp,
	}, firestore.MergeAll)
	return err
}

func (r *firestoreTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]domain.PushToken, error) {
	iter := r.user(userID).Collection(TokensCollection).Documents(ctx)
	defer iter.Stop()

	var tokens []domain.PushToken
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var t domain.PushToken
		if err := snap.DataTo(&t); err != nil {
			return nil, err
		}
		t.Token = snap.Ref.ID
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func (r *firestoreTokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	_, err := r.user(userID).Collection(TokensCollection).Doc(token).Delete(ctx)
	return err
}

func (r *firestoreTokenRepository) DeleteTokensByUserID(ctx context.Context, userID string) (int, error) {
	refs, err := r.user(userID).Collection(TokensCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return 0, err
		}
	}
	bw.End()
	return len(refs), nil
}

func (r *firestoreTokenRepository) SetHasNotifications(ctx context.Context, userID string, enabled bool) error {
	data := map[string]interface{}{
		"hasNotifications": enabled,
		"updatedAt":        firestore.ServerTimestamp,
	}
	if !enabled {
		data["lastPushToken"] = firestore.Delete
	}
	_, err := r.user(userID).Set(ctx, data, firestore.MergeAll)
	return err
}
