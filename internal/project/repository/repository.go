package repository

import (
	"context"

	"project-collab-platform/internal/project/domain"
)

// Repository defines persistence for projects and both membership rosters.
// AddMember and RemoveMember mutate the team roster and the paired chat's
// participant roster as one commit unit; a partial write must never become
// visible.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Create persists the project, its paired chat, and the owner's rows in
	// both rosters in a single transaction. ChatID must be set.
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	// Delete removes the project and everything it owns: issues, comments,
	// messages, the chat, and both rosters.
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, projectID, chatID, userID string) error
	RemoveMember(ctx context.Context, projectID, chatID, userID string) error
	ListByMember(ctx context.Context, userID string) ([]*domain.Project, error)
	// SearchByNameAndMember returns projects whose name contains keyword and
	// whose team contains userID, ordered by name.
	SearchByNameAndMember(ctx context.Context, keyword, userID string) ([]*domain.Project, error)
}
