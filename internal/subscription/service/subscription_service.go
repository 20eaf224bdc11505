package service

import (
	"context"
	"errors"
	"time"

	"project-collab-platform/internal/audit"
	auditdomain "project-collab-platform/internal/audit/domain"
	"project-collab-platform/internal/subscription/domain"
	subscriptionrepo "project-collab-platform/internal/subscription/repository"
)

// Sentinel errors for the subscription service.
var (
	// ErrSubscriptionNotFound means the user has no subscription record.
	// Signup always creates one, so hitting this is a precondition violation
	// in the caller, not a normal outcome.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidPlan          = errors.New("invalid plan type")
)

// Service is the plan/window state machine. Expiry is healed lazily on read;
// there is no background sweep.
type Service struct {
	repo     subscriptionrepo.Repository
	auditLog audit.AuditLogger
	nowF     func() time.Time
}

// NewService returns a subscription Service with the given dependencies.
func NewService(repo subscriptionrepo.Repository, auditLog audit.AuditLogger) *Service {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &Service{
		repo:     repo,
		auditLog: auditLog,
		nowF:     time.Now().UTC,
	}
}

// today truncates the clock to day granularity; plan windows are date-based.
func (s *Service) today() time.Time {
	return s.nowF().Truncate(24 * time.Hour)
}

// Create starts userID on the FREE plan with a 12-month window. Called once
// at signup.
func (s *Service) Create(ctx context.Context, userID string) (*domain.Subscription, error) {
	today := s.today()
	sub := &domain.Subscription{
		UserID:    userID,
		Plan:      domain.PlanFree,
		StartDate: today,
		EndDate:   today.AddDate(0, 12, 0),
		Active:    true,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns the user's subscription. An expired non-FREE plan is reset in
// place to FREE with a fresh 12-month window before being returned; the reset
// is persisted, so expiry observed once stays healed.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if !s.IsActive(sub) {
		today := s.today()
		sub.Plan = domain.PlanFree
		sub.StartDate = today
		sub.EndDate = today.AddDate(0, 12, 0)
		sub.Active = true
		if err := s.repo.Update(ctx, sub); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// Upgrade switches the user to plan starting today: 12 months for ANNUALLY,
// 1 month for MONTHLY. Any unexpired remainder of the previous plan is
// overwritten; there is no pro-rating or stacking.
func (s *Service) Upgrade(ctx context.Context, userID string, plan domain.Plan) (*domain.Subscription, error) {
	if !plan.Valid() {
		return nil, ErrInvalidPlan
	}
	sub, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	today := s.today()
	sub.Plan = plan
	sub.StartDate = today
	if plan == domain.PlanAnnually {
		sub.EndDate = today.AddDate(0, 12, 0)
	} else {
		sub.EndDate = today.AddDate(0, 1, 0)
	}
	sub.Active = true
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.auditLog.Event(ctx, userID, auditdomain.ActionPlanUpgraded, userID, string(plan))
	return sub, nil
}

// IsActive reports whether the subscription is active: FREE always is; any
// other plan is active while today is within the window (end date inclusive).
func (s *Service) IsActive(sub *domain.Subscription) bool {
	if sub.Plan == domain.PlanFree {
		return true
	}
	return !sub.EndDate.Before(s.today())
}
