package repository

import (
	"context"
	"database/sql"
	"errors"

	"project-collab-platform/internal/invitation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an invitation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByToken returns the invitation for token, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, email, project_id, created_at FROM invitations WHERE token = $1`, token)
	return scanInvitation(row)
}

// GetByEmail returns the most recent invitation for email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, email, project_id, created_at FROM invitations
		WHERE email = $1 ORDER BY created_at DESC LIMIT 1`, email)
	return scanInvitation(row)
}

// Create persists the invitation. Token must be set and unique.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (token, email, project_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		i.Token, i.Email, i.ProjectID, i.CreatedAt,
	)
	return err
}

// DeleteByToken removes the invitation. Deleting a missing token is a no-op.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE token = $1`, token)
	return err
}

func scanInvitation(row *sql.Row) (*domain.Invitation, error) {
	var i domain.Invitation
	err := row.Scan(&i.Token, &i.Email, &i.ProjectID, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}
