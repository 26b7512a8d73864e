package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitai-backend/internal/coach/domain"
	userrepo "fitai-backend/internal/user/repository"
)

// memoryCoachRepository keeps invites and links in process memory. When a user
// repository is attached the student's coachId is kept in step with the links.
type memoryCoachRepository struct {
	mu      sync.Mutex
	invites map[string]domain.Invite
	links   map[string]domain.Link
	users   userrepo.UserRepository
}

// NewMemoryCoachRepository creates an empty in-memory CoachRepository. users may be nil.
func NewMemoryCoachRepository(users userrepo.UserRepository) CoachRepository {
	return &memoryCoachRepository{
		invites: make(map[string]domain.Invite),
		links:   make(map[string]domain.Link),
		users:   users,
	}
}

func (r *memoryCoachRepository) CreateInvite(_ context.Context, invite domain.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invites[invite.Code]; ok {
		return domain.ErrCodeTaken
	}
	r.invites[invite.Code] = invite
	return nil
}

func (r *memoryCoachRepository) GetInvite(_ context.Context, code string) (*domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[code]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *memoryCoachRepository) Redeem(ctx context.Context, code, studentID string, now time.Time) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invites[code]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	if err := inv.CheckRedeemable(studentID, now); err != nil {
		return nil, err
	}

	if r.users != nil {
		if err := r.users.UpdateFields(ctx, studentID, map[string]interface{}{"coachId": inv.CoachID}); err != nil {
			return nil, err
		}
	}
	link := domain.Link{CoachID: inv.CoachID, StudentID: studentID, CreatedAt: now}
	r.links[domain.LinkID(inv.CoachID, studentID)] = link
	inv.UsedBy = studentID
	inv.UsedAt = now
	r.invites[code] = inv
	return &link, nil
}

func (r *memoryCoachRepository) GetLink(_ context.Context, coachID, studentID string) (*domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[domain.LinkID(coachID, studentID)]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memoryCoachRepository) ListByCoach(_ context.Context, coachID string) ([]domain.Link, error) {
	return r.filter(func(l domain.Link) bool { return l.CoachID == coachID }), nil
}

func (r *memoryCoachRepository) ListByStudent(_ context.Context, studentID string) ([]domain.Link, error) {
	return r.filter(func(l domain.Link) bool { return l.StudentID == studentID }), nil
}

func (r *memoryCoachRepository) filter(keep func(domain.Link) bool) []domain.Link {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Link
	for _, l := range r.links {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return domain.LinkID(out[i].CoachID, out[i].StudentID) < domain.LinkID(out[j].CoachID, out[j].StudentID)
	})
	return out
}

func (r *memoryCoachRepository) DeleteLink(ctx context.Context, coachID, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, domain.LinkID(coachID, studentID))

	if r.users == nil {
		return nil
	}
	student, err := r.users.FindByID(ctx, studentID)
	if err != nil || student == nil {
		return err
	}
	if student.CoachID == coachID {
		return r.users.UpdateFields(ctx, studentID, map[string]interface{}{"coachId": ""})
	}
	return nil
}

func (r *memoryCoachRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	var students []string
	for id, l := range r.links {
		if l.CoachID == userID || l.StudentID == userID {
			delete(r.links, id)
			n++
		}
		if l.CoachID == userID {
			students = append(students, l.StudentID)
		}
	}
	for code, inv := range r.invites {
		if inv.CoachID == userID {
			delete(r.invites, code)
			n++
		}
	}

	if r.users == nil {
		return n, nil
	}
	for _, id := range students {
		student, err := r.users.FindByID(ctx, id)
		if err != nil {
			return n, err
		}
		if student != nil && student.CoachID == userID {
			if err := r.users.UpdateFields(ctx, id, map[string]interface{}{"coachId": ""}); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}
