package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"project-collab-platform/internal/project/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a project repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the project for id with its team roster and chat id, or nil
// if not found. It returns an error only for database failures, not for
// missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.description, p.category, p.tags, p.owner_id, c.id, p.created_at, p.updated_at
		FROM projects p JOIN chats c ON c.project_id = p.id
		WHERE p.id = $1`, id)
	p, err := scanProject(row)
	if err != nil || p == nil {
		return p, err
	}
	team, err := r.teamRoster(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Team = team
	return p, nil
}

// Create persists the project, its chat, and the owner's roster rows in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, category, tags, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, p.Category, joinTags(p.Tags), p.OwnerID, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chats (id, project_id, created_at) VALUES ($1, $2, $3)`,
		p.ChatID, p.ID, p.CreatedAt,
	); err != nil {
		return err
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, added_at) VALUES ($1, $2, $3)`,
		p.ID, p.OwnerID, now,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_participants (chat_id, user_id, added_at) VALUES ($1, $2, $3)`,
		p.ChatID, p.OwnerID, now,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Update persists name, description, category, and tags.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = $2, description = $3, category = $4, tags = $5, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, joinTags(p.Tags),
	)
	return err
}

// Delete removes the project row; issues, comments, messages, the chat, and
// both roster tables cascade via foreign keys.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

// AddMember inserts userID into both rosters in one transaction. Inserting an
// existing member is a no-op on both tables, so the operation is idempotent.
func (r *PostgresRepository) AddMember(ctx context.Context, projectID, chatID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, added_at) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		projectID, userID, now,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_participants (chat_id, user_id, added_at) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		chatID, userID, now,
	); err != nil {
		return err
	}
	if err := r.verifyRosters(ctx, tx, projectID, chatID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveMember deletes userID from both rosters in one transaction.
func (r *PostgresRepository) RemoveMember(ctx context.Context, projectID, chatID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chat_participants WHERE chat_id = $1 AND user_id = $2`,
		chatID, userID,
	); err != nil {
		return err
	}
	if err := r.verifyRosters(ctx, tx, projectID, chatID); err != nil {
		return err
	}
	return tx.Commit()
}

// verifyRosters checks set equality of the two rosters before commit. A
// mismatch aborts the transaction with ErrRosterDiverged.
func (r *PostgresRepository) verifyRosters(ctx context.Context, tx *sql.Tx, projectID, chatID string) error {
	var equal bool
	err := tx.QueryRowContext(ctx, `
		SELECT NOT EXISTS (
			SELECT user_id FROM project_members WHERE project_id = $1
			EXCEPT
			SELECT user_id FROM chat_participants WHERE chat_id = $2
		) AND NOT EXISTS (
			SELECT user_id FROM chat_participants WHERE chat_id = $2
			EXCEPT
			SELECT user_id FROM project_members WHERE project_id = $1
		)`, projectID, chatID).Scan(&equal)
	if err != nil {
		return err
	}
	if !equal {
		return domain.ErrRosterDiverged
	}
	return nil
}

// ListByMember returns all projects whose team contains userID, ordered by name.
func (r *PostgresRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Project, error) {
	return r.queryProjects(ctx, `
		SELECT p.id, p.name, p.description, p.category, p.tags, p.owner_id, c.id, p.created_at, p.updated_at
		FROM projects p
		JOIN chats c ON c.project_id = p.id
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.name`, userID)
}

// SearchByNameAndMember returns projects matching keyword (substring,
// case-insensitive) whose team contains userID, ordered by name.
func (r *PostgresRepository) SearchByNameAndMember(ctx context.Context, keyword, userID string) ([]*domain.Project, error) {
	return r.queryProjects(ctx, `
		SELECT p.id, p.name, p.description, p.category, p.tags, p.owner_id, c.id, p.created_at, p.updated_at
		FROM projects p
		JOIN chats c ON c.project_id = p.id
		JOIN project_members m ON m.project_id = p.id
		WHERE p.name ILIKE '%' || $1 || '%' AND m.user_id = $2
		ORDER BY p.name`, keyword, userID)
}

func (r *PostgresRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range out {
		team, err := r.teamRoster(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Team = team
	}
	return out, nil
}

func (r *PostgresRepository) teamRoster(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY added_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var team []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		team = append(team, id)
	}
	return team, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p    domain.Project
		tags string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &tags, &p.OwnerID, &p.ChatID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Tags = splitTags(tags)
	return &p, nil
}

// Tags are stored comma-joined; tag values themselves never contain commas.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
