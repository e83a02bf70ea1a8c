package availability

import (
	"context"
	"errors"
	"sync"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

type fakeRecurrenceRepo struct {
	mu       sync.Mutex
	rules    map[string][]domain.WeeklyRule
	listErr  error
	replaced int
}

func newFakeRecurrenceRepo() *fakeRecurrenceRepo {
	return &fakeRecurrenceRepo{rules: make(map[string][]domain.WeeklyRule)}
}

func (r *fakeRecurrenceRepo) ListBySitter(ctx context.Context, sitterID string) ([]domain.WeeklyRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.WeeklyRule(nil), r.rules[sitterID]...), nil
}

func (r *fakeRecurrenceRepo) Replace(ctx context.Context, sitterID string, rules []domain.WeeklyRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaced++
	for i := range rules {
		rules[i].ID = i + 1
	}
	r.rules[sitterID] = append([]domain.WeeklyRule(nil), rules...)
	return nil
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	owners []string
	err    error
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	if role != domain.RoleOwner {
		return nil, nil
	}
	return r.owners, nil
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	sent   []*domain.Notification
	failOn map[string]bool
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn[n.RecipientID] {
		return errors.New("sink unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *fakeNotificationRepo) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.RecipientID)
	}
	return out
}
