package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"project-collab-platform/internal/audit/domain"
)

type memAuditRepo struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
	fail   error
}

func (r *memAuditRepo) Create(ctx context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	e2 := *e
	r.events = append(r.events, &e2)
	return nil
}

func (r *memAuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditEvent
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestLogger_Event(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)

	l.Event(context.Background(), "u1", domain.ActionLogin, "u1", "")

	if len(repo.events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.ID == "" {
		t.Error("event ID unset")
	}
	if e.UserID != "u1" || e.Action != domain.ActionLogin || e.Resource != "u1" {
		t.Errorf("event = %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt unset")
	}
}

func TestLogger_EventEmptyUserGetsSentinel(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)

	l.Event(context.Background(), "", domain.ActionLogin, "u1", "failed attempt")

	if len(repo.events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(repo.events))
	}
	if repo.events[0].UserID != SentinelUserID {
		t.Errorf("UserID = %q, want %q", repo.events[0].UserID, SentinelUserID)
	}
}

func TestLogger_EventBestEffort(t *testing.T) {
	repo := &memAuditRepo{fail: errors.New("db down")}
	l := NewLogger(repo, nil)

	// Must not panic or surface the error.
	l.Event(context.Background(), "u1", domain.ActionLogin, "u1", "")
}

func TestNop(t *testing.T) {
	// Nop must be safe to call with no backing store.
	Nop().Event(context.Background(), "u1", domain.ActionLogin, "u1", "")
}
