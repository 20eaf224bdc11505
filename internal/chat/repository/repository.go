package repository

import (
	"context"

	"project-collab-platform/internal/chat/domain"
)

// Repository defines persistence for chats and messages. Participant rows are
// written only by the project repository's roster transactions; this
// repository reads them.
type Repository interface {
	GetByProject(ctx context.Context, projectID string) (*domain.Chat, error)
	AddMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error)
}
