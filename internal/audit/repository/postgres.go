package repository

import (
	"context"
	"database/sql"

	"project-collab-platform/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists one audit event.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, user_id, action, resource, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Action, e.Resource, e.Metadata, e.CreatedAt,
	)
	return err
}

// ListByUser returns the most recent events for userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, action, resource, metadata, created_at
		FROM audit_events WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Resource, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
