package repository

import (
	"context"
	"database/sql"
	"errors"

	"project-collab-platform/internal/subscription/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a subscription repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser returns the subscription for userID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, plan, start_date, end_date, is_active
		FROM subscriptions WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Plan, &s.StartDate, &s.EndDate, &s.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create persists the subscription.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		s.UserID, s.Plan, s.StartDate, s.EndDate, s.Active,
	)
	return err
}

// Update persists plan and window changes.
func (r *PostgresRepository) Update(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET plan = $2, start_date = $3, end_date = $4, is_active = $5
		WHERE user_id = $1`,
		s.UserID, s.Plan, s.StartDate, s.EndDate, s.Active,
	)
	return err
}
