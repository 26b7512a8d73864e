package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fitai-backend/internal/user/domain"
)

// UsersCollection is the top-level collection holding user documents
const UsersCollection = "users"

// firestoreUserRepository implements UserRepository on Cloud Firestore
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(UsersCollection).Doc(id)
}

func (r *firestoreUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return decodeUser(snap)
}

func (r *firestoreUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	iter := r.client.Collection(UsersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeUser(snap)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.doc(user.ID).Set(ctx, user)
	return err
}

func (r *firestoreUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	data := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["updatedAt"] = firestore.ServerTimestamp
	_, err := r.doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx)
	return err
}

func (r *firestoreUserRepository) ListReminderCandidates(ctx context.Context) ([]*domain.User, error) {
	iter := r.client.Collection(UsersCollection).
		Where("notificationPrefs.workoutReminders", "==", true).
		Where("hasNotifications", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var users []*domain.User
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, err
	}
	u.ID = snap.Ref.ID
	return &u, nil
}
