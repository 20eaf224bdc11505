package repository

import (
	"context"

	"project-collab-platform/internal/subscription/domain"
)

// Repository defines persistence for subscriptions, keyed by user (1:1).
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	Create(ctx context.Context, s *domain.Subscription) error
	Update(ctx context.Context, s *domain.Subscription) error
}
