package repository

import (
	"context"
	"database/sql"
	"errors"

	"project-collab-platform/internal/chat/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a chat repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByProject returns the chat paired with projectID including its
// participant roster, or nil if not found.
func (r *PostgresRepository) GetByProject(ctx context.Context, projectID string) (*domain.Chat, error) {
	var c domain.Chat
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, created_at FROM chats WHERE project_id = $1`, projectID).
		Scan(&c.ID, &c.ProjectID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM chat_participants WHERE chat_id = $1 ORDER BY added_at`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		c.Participants = append(c.Participants, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddMessage persists one message.
func (r *PostgresRepository) AddMessage(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content, sent_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ChatID, m.SenderID, m.Content, m.SentAt,
	)
	return err
}

// ListMessages returns the chat's messages, oldest first.
func (r *PostgresRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, sender_id, content, sent_at
		FROM messages WHERE chat_id = $1
		ORDER BY sent_at LIMIT $2`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
