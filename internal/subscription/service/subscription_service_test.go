package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"project-collab-platform/internal/subscription/domain"
)

type memSubscriptionRepo struct {
	mu     sync.Mutex
	byUser map[string]*domain.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{byUser: make(map[string]*domain.Subscription)}
}

func (r *memSubscriptionRepo) GetByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	s2 := *sub
	return &s2, nil
}

func (r *memSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *sub
	r.byUser[sub.UserID] = &s2
	return nil
}

func (r *memSubscriptionRepo) Update(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *sub
	r.byUser[sub.UserID] = &s2
	return nil
}

func newTestService(t *testing.T, at time.Time) (*Service, *memSubscriptionRepo) {
	t.Helper()
	repo := newMemSubscriptionRepo()
	svc := NewService(repo, nil)
	svc.nowF = func() time.Time { return at }
	return svc, repo
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestService_Create(t *testing.T) {
	svc, _ := newTestService(t, day("2026-03-01"))

	sub, err := svc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sub.Plan != domain.PlanFree {
		t.Errorf("Plan = %q, want FREE", sub.Plan)
	}
	if !sub.StartDate.Equal(day("2026-03-01")) {
		t.Errorf("StartDate = %v, want 2026-03-01", sub.StartDate)
	}
	if !sub.EndDate.Equal(day("2027-03-01")) {
		t.Errorf("EndDate = %v, want 2027-03-01", sub.EndDate)
	}
	if !sub.Active {
		t.Error("new subscription should be active")
	}
	if !svc.IsActive(sub) {
		t.Error("IsActive(new FREE subscription) = false")
	}
}

func TestService_GetMissing(t *testing.T) {
	svc, _ := newTestService(t, day("2026-03-01"))
	if _, err := svc.Get(context.Background(), "nobody"); err != ErrSubscriptionNotFound {
		t.Errorf("Get missing: want ErrSubscriptionNotFound, got %v", err)
	}
}

func TestService_Upgrade(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		plan    domain.Plan
		wantEnd time.Time
	}{
		{domain.PlanAnnually, day("2027-03-01")},
		{domain.PlanMonthly, day("2026-04-01")},
	}
	for _, tc := range cases {
		t.Run(string(tc.plan), func(t *testing.T) {
			svc, _ := newTestService(t, day("2026-03-01"))
			if _, err := svc.Create(ctx, "u1"); err != nil {
				t.Fatalf("Create: %v", err)
			}

			sub, err := svc.Upgrade(ctx, "u1", tc.plan)
			if err != nil {
				t.Fatalf("Upgrade: %v", err)
			}
			if sub.Plan != tc.plan {
				t.Errorf("Plan = %q, want %q", sub.Plan, tc.plan)
			}
			if !sub.StartDate.Equal(day("2026-03-01")) {
				t.Errorf("StartDate = %v, want today", sub.StartDate)
			}
			if !sub.EndDate.Equal(tc.wantEnd) {
				t.Errorf("EndDate = %v, want %v", sub.EndDate, tc.wantEnd)
			}
		})
	}
}

func TestService_UpgradeInvalidPlan(t *testing.T) {
	svc, _ := newTestService(t, day("2026-03-01"))
	ctx := context.Background()
	if _, err := svc.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Upgrade(ctx, "u1", domain.Plan("PLATINUM")); err != ErrInvalidPlan {
		t.Errorf("Upgrade bogus plan: want ErrInvalidPlan, got %v", err)
	}
}

func TestService_UpgradeMissing(t *testing.T) {
	svc, _ := newTestService(t, day("2026-03-01"))
	if _, err := svc.Upgrade(context.Background(), "nobody", domain.PlanMonthly); err != ErrSubscriptionNotFound {
		t.Errorf("Upgrade missing: want ErrSubscriptionNotFound, got %v", err)
	}
}

func TestService_IsActiveBoundary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, day("2026-03-01"))
	if _, err := svc.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	sub, err := svc.Upgrade(ctx, "u1", domain.PlanMonthly)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	// Active through the end date inclusive, expired the day after.
	svc.nowF = func() time.Time { return day("2026-04-01") }
	if !svc.IsActive(sub) {
		t.Error("IsActive on end date = false, want true")
	}
	svc.nowF = func() time.Time { return day("2026-04-02") }
	if svc.IsActive(sub) {
		t.Error("IsActive past end date = true, want false")
	}
}

func TestService_GetHealsExpiredPlan(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, day("2026-03-01"))
	if _, err := svc.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Upgrade(ctx, "u1", domain.PlanMonthly); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	// Well past the monthly window.
	svc.nowF = func() time.Time { return day("2026-06-15") }

	sub, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.Plan != domain.PlanFree {
		t.Errorf("healed Plan = %q, want FREE", sub.Plan)
	}
	if !sub.StartDate.Equal(day("2026-06-15")) {
		t.Errorf("healed StartDate = %v, want 2026-06-15", sub.StartDate)
	}
	if !sub.EndDate.Equal(day("2027-06-15")) {
		t.Errorf("healed EndDate = %v, want 2027-06-15", sub.EndDate)
	}

	// The heal is persisted, not just returned.
	stored, _ := repo.GetByUser(ctx, "u1")
	if stored.Plan != domain.PlanFree {
		t.Errorf("stored Plan after heal = %q, want FREE", stored.Plan)
	}
}

func TestService_GetLeavesActivePlanAlone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, day("2026-03-01"))
	if _, err := svc.Create(ctx, "u1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Upgrade(ctx, "u1", domain.PlanAnnually); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	svc.nowF = func() time.Time { return day("2026-09-01") }
	sub, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.Plan != domain.PlanAnnually {
		t.Errorf("Plan = %q, want ANNUALLY untouched", sub.Plan)
	}
	if !sub.EndDate.Equal(day("2027-03-01")) {
		t.Errorf("EndDate = %v, want original window end", sub.EndDate)
	}
}
