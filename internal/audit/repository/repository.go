package repository

import (
	"context"

	"project-collab-platform/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	Create(ctx context.Context, e *domain.AuditEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEvent, error)
}
