package repository

import (
	"context"

	"project-collab-platform/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateProjectCount adjusts the user's project counter by delta (may be negative).
	UpdateProjectCount(ctx context.Context, id string, delta int) error
}
