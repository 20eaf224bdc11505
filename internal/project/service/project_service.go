package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"project-collab-platform/internal/audit"
	auditdomain "project-collab-platform/internal/audit/domain"
	"project-collab-platform/internal/project/domain"
	projectrepo "project-collab-platform/internal/project/repository"
	userdomain "project-collab-platform/internal/user/domain"
)

// Sentinel errors for the project service; callers map them to transport codes.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotAuthorized   = errors.New("not authorized")
)

// UserRepo is the minimal user repository needed by the project service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	UpdateProjectCount(ctx context.Context, id string, delta int) error
}

// CreateInput carries the caller-supplied fields for a new project.
type CreateInput struct {
	Name        string
	Description string
	Category    string
	Tags        []string
}

// UpdateInput carries the mutable project fields.
type UpdateInput struct {
	Name        string
	Description string
	Tags        []string
}

// Service coordinates project state and both membership rosters. The team
// roster and the paired chat's participant roster are only ever written
// together; roster mutations on the same project are serialized through a
// per-project lock.
type Service struct {
	repo     projectrepo.Repository
	userRepo UserRepo
	auditLog audit.AuditLogger
	locks    *projectLocks
	tracer   trace.Tracer
	nowF     func() time.Time
}

// NewService returns a project Service with the given dependencies.
func NewService(repo projectrepo.Repository, userRepo UserRepo, auditLog audit.AuditLogger) *Service {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		auditLog: auditLog,
		locks:    newProjectLocks(),
		tracer:   otel.Tracer("project-collab-platform/project"),
		nowF:     time.Now().UTC,
	}
}

// Create builds the project and its paired chat, seeds the owner into both
// rosters, and bumps the owner's project counter.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID string) (*domain.Project, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	now := s.nowF()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Tags:        in.Tags,
		OwnerID:     ownerID,
		ChatID:      uuid.New().String(),
		Team:        []string{ownerID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProjectCount(ctx, ownerID, 1); err != nil {
		return nil, err
	}
	s.auditLog.Event(ctx, ownerID, auditdomain.ActionProjectCreated, p.ID, p.Name)
	return p, nil
}

// Get returns the project or ErrProjectNotFound.
func (s *Service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// AddMember adds userID to the team roster and the chat participant roster as
// one unit. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, projectID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "project.AddMember",
		trace.WithAttributes(attribute.String("project.id", projectID)))
	defer span.End()

	mu := s.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProjectNotFound
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if p.InTeam(userID) {
		return nil
	}
	if err := s.repo.AddMember(ctx, p.ID, p.ChatID, userID); err != nil {
		return err
	}
	s.auditLog.Event(ctx, userID, auditdomain.ActionMemberAdded, p.ID, "")
	return nil
}

// RemoveMember removes userID from both rosters as one unit. Removing a user
// who is not on the team is a no-op. The owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, projectID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "project.RemoveMember",
		trace.WithAttributes(attribute.String("project.id", projectID)))
	defer span.End()

	mu := s.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProjectNotFound
	}
	if userID == p.OwnerID {
		return ErrNotAuthorized
	}
	if !p.InTeam(userID) {
		return nil
	}
	if err := s.repo.RemoveMember(ctx, p.ID, p.ChatID, userID); err != nil {
		return err
	}
	s.auditLog.Event(ctx, userID, auditdomain.ActionMemberRemoved, p.ID, "")
	return nil
}

// Update applies the mutable fields. The requester must be a team member.
func (s *Service) Update(ctx context.Context, in UpdateInput, projectID, requesterID string) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	if !p.InTeam(requesterID) {
		return nil, ErrNotAuthorized
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Tags = in.Tags
	p.UpdatedAt = s.nowF()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and everything it owns (issues, comments,
// messages, chat, rosters). Only the owner may delete.
func (s *Service) Delete(ctx context.Context, projectID, requesterID string) error {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProjectNotFound
	}
	if p.OwnerID != requesterID {
		return ErrNotAuthorized
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateProjectCount(ctx, p.OwnerID, -1); err != nil {
		return err
	}
	s.auditLog.Event(ctx, requesterID, auditdomain.ActionProjectDeleted, p.ID, p.Name)
	return nil
}

// ListForUser returns the user's projects, optionally filtered by category
// and tag.
func (s *Service) ListForUser(ctx context.Context, userID, category, tag string) ([]*domain.Project, error) {
	projects, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := projects[:0]
	for _, p := range projects {
		if category != "" && p.Category != category {
			continue
		}
		if tag != "" && !p.HasTag(tag) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Search returns the user's projects whose name contains keyword.
func (s *Service) Search(ctx context.Context, keyword, userID string) ([]*domain.Project, error) {
	return s.repo.SearchByNameAndMember(ctx, keyword, userID)
}
