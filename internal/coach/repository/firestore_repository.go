package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fitai-backend/internal/coach/domain"
	userrepo "fitai-backend/internal/user/repository"
)

const (
	InvitesCollection = "coachInvites"
	LinksCollection   = "coachLinks"
)

type firestoreCoachRepository struct {
	client *firestore.Client
}

// NewFirestoreCoachRepository creates a new instance of firestoreCoachRepository
func NewFirestoreCoachRepository(client *firestore.Client) CoachRepository {
	return &firestoreCoachRepository{client: client}
}

func (r *firestoreCoachRepository) invite(code string) *firestore.DocumentRef {
	return r.client.Collection(InvitesCollection).Doc(code)
}

func (r *firestoreCoachRepository) link(coachID, studentID string) *firestore.DocumentRef {
	return r.client.Collection(LinksCollection).Doc(domain.LinkID(coachID, studentID))
}

func (r *firestoreCoachRepository) CreateInvite(ctx context.Context, invite domain.Invite) error {
	_, err := r.invite(invite.Code).Create(ctx, invite)
	if status.Code(err) == codes.AlreadyExists {
		return domain.ErrCodeTaken
	}
	return err
}

func (r *firestoreCoachRepository) GetInvite(ctx context.Context, code string) (*domain.Invite, error) {
	snap, err := r.invite(code).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var inv domain.Invite
	if err := snap.DataTo(&inv); err != nil {
		return nil, err
	}
	inv.Code = snap.Ref.ID
	return &inv, nil
}

func (r *firestoreCoachRepository) Redeem(ctx context.Context, code, studentID string, now time.Time) (*domain.Link, error) {
	var link *domain.Link
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		inviteRef := r.invite(code)
		snap, err := tx.Get(inviteRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrInviteNotFound
			}
			return err
		}
		var inv domain.Invite
		if err := snap.DataTo(&inv); err != nil {
			return err
		}
		if err := inv.CheckRedeemable(studentID, now); err != nil {
			return err
		}

		link = &domain.Link{CoachID: inv.CoachID, StudentID: studentID, CreatedAt: now}
		if err := tx.Set(r.link(inv.CoachID, studentID), link); err != nil {
			return err
		}
		if err := tx.Set(r.client.Collection(userrepo.UsersCollection).Doc(studentID), map[string]interface{}{
			"coachId":   inv.CoachID,
			"updatedAt": firestore.ServerTimestamp,
		}, firestore.MergeAll); err != nil {
			return err
		}
		return tx.Update(inviteRef, []firestore.Update{
			{Path: "usedBy", Value: studentID},
			{Path: "usedAt", Value: now},
		})
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *firestoreCoachRepository) GetLink(ctx context.Context, coachID, studentID string) (*domain.Link, error) {
	snap, err := r.link(coachID, studentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var l domain.Link
	if err := snap.DataTo(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *firestoreCoachRepository) ListByCoach(ctx context.Context, coachID string) ([]domain.Link, error) {
	return r.listLinks(ctx, "coachId", coachID)
}

func (r *firestoreCoachRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Link, error) {
	return r.listLinks(ctx, "studentId", studentID)
}

func (r *firestoreCoachRepository) listLinks(ctx context.Context, field, value string) ([]domain.Link, error) {
	iter := r.client.Collection(LinksCollection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	var links []domain.Link
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var l domain.Link
		if err := snap.DataTo(&l); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

func (r *firestoreCoachRepository) DeleteLink(ctx context.Context, coachID, studentID string) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		studentRef := r.client.Collection(userrepo.UsersCollection).Doc(studentID)
		snap, err := tx.Get(studentRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		// Reads must precede writes in a transaction
		clearCoach := false
		if snap != nil && snap.Exists() {
			if current, err := snap.DataAt("coachId"); err == nil && current == coachID {
				clearCoach = true
			}
		}

		if err := tx.Delete(r.link(coachID, studentID)); err != nil {
			return err
		}
		if clearCoach {
			return tx.Update(studentRef, []firestore.Update{
				{Path: "coachId", Value: firestore.Delete},
				{Path: "updatedAt", Value: firestore.ServerTimestamp},
			})
		}
		return nil
	})
}

// DeleteByUser removes every link and invite naming userID and clears coachId
// on students who were linked to userID as their coach.
func (r *firestoreCoachRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	var refs, studentRefs []*firestore.DocumentRef
	queries := []firestore.Query{
		r.client.Collection(LinksCollection).Where("coachId", "==", userID),
		r.client.Collection(LinksCollection).Where("studentId", "==", userID),
		r.client.Collection(InvitesCollection).Where("coachId", "==", userID),
	}
	for qi, q := range queries {
		snaps, err := q.Documents(ctx).GetAll()
		if err != nil {
			return 0, err
		}
		for _, s := range snaps {
			refs = append(refs, s.Ref)
			if qi != 0 {
				continue
			}
			if studentID, err := s.DataAt("studentId"); err == nil {
				if id, ok := studentID.(string); ok && id != "" {
					studentRefs = append(studentRefs, r.client.Collection(userrepo.UsersCollection).Doc(id))
				}
			}
		}
	}
	if len(refs) == 0 {
		return 0, nil
	}

	// Only students still pointing at this coach are touched
	var release []*firestore.DocumentRef
	if len(studentRefs) > 0 {
		snaps, err := r.client.GetAll(ctx, studentRefs)
		if err != nil {
			return 0, err
		}
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			if current, err := snap.DataAt("coachId"); err == nil && current == userID {
				release = append(release, snap.Ref)
			}
		}
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return 0, err
		}
	}
	for _, ref := range release {
		if _, err := bw.Update(ref, []firestore.Update{
			{Path: "coachId", Value: firestore.Delete},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			bw.End()
			return 0, err
		}
	}
	bw.End()
	return len(refs), nil
}
