package repository

import (
	"context"

	"project-collab-platform/internal/invitation/domain"
)

// Repository defines persistence for invitations, keyed by token.
type Repository interface {
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetByEmail(ctx context.Context, email string) (*domain.Invitation, error)
	Create(ctx context.Context, i *domain.Invitation) error
	DeleteByToken(ctx context.Context, token string) error
}
