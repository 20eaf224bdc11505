package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"project-collab-platform/internal/audit"
	auditdomain "project-collab-platform/internal/audit/domain"
	"project-collab-platform/internal/invitation/domain"
	invitationrepo "project-collab-platform/internal/invitation/repository"
	projectdomain "project-collab-platform/internal/project/domain"
)

// Sentinel errors for the invitation service.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrNotAuthorized      = errors.New("not authorized to send invitations for this project")
	ErrInvalidInvitation  = errors.New("invalid invitation token")
	ErrInvitationNotFound = errors.New("no invitation for that email")
)

// ProjectReader fetches a project for the team authorization check.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*projectdomain.Project, error)
}

// MemberAdder applies the membership change an accepted invitation grants.
// Implemented by the project service; the add is idempotent there.
type MemberAdder interface {
	AddMember(ctx context.Context, projectID, userID string) error
}

// Mailer delivers the invitation link. Outbound email is an external
// collaborator; implementations live with the transport layer.
type Mailer interface {
	SendInvitation(ctx context.Context, email, link string) error
}

// NopMailer discards invitation mail. Used in tests and tooling.
type NopMailer struct{}

func (NopMailer) SendInvitation(ctx context.Context, email, link string) error { return nil }

// Service issues and resolves invitation tokens. Tokens are single-project,
// bound to an email, and live until explicitly revoked; acceptance does not
// consume them because the membership add is idempotent and a second accept
// must stay a harmless no-op.
type Service struct {
	repo          invitationrepo.Repository
	projects      ProjectReader
	members       MemberAdder
	mailer        Mailer
	auditLog      audit.AuditLogger
	inviteBaseURL string
	nowF          func() time.Time
}

// NewService returns an invitation Service with the given dependencies.
// inviteBaseURL is the acceptance endpoint the token is appended to.
func NewService(repo invitationrepo.Repository, projects ProjectReader, members MemberAdder, mailer Mailer, auditLog audit.AuditLogger, inviteBaseURL string) *Service {
	if mailer == nil {
		mailer = NopMailer{}
	}
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &Service{
		repo:          repo,
		projects:      projects,
		members:       members,
		mailer:        mailer,
		auditLog:      auditLog,
		inviteBaseURL: inviteBaseURL,
		nowF:          time.Now().UTC,
	}
}

// Send creates an invitation binding email to projectID and mails the
// acceptance link. The inviter must be on the project's team.
func (s *Service) Send(ctx context.Context, email, projectID, inviterID string) (*domain.Invitation, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	if !p.InTeam(inviterID) {
		return nil, ErrNotAuthorized
	}
	inv := &domain.Invitation{
		Token:     uuid.New().String(),
		Email:     email,
		ProjectID: projectID,
		CreatedAt: s.nowF(),
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s?token=%s", s.inviteBaseURL, inv.Token)
	if err := s.mailer.SendInvitation(ctx, email, link); err != nil {
		return nil, err
	}
	s.auditLog.Event(ctx, inviterID, auditdomain.ActionInviteSent, projectID, email)
	return inv, nil
}

// Accept resolves token and adds userID to the project's rosters. Returns the
// project id the invitation was bound to. A second accept of the same token
// is a no-op because the membership add is idempotent.
func (s *Service) Accept(ctx context.Context, token, userID string) (string, error) {
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if inv == nil {
		return "", ErrInvalidInvitation
	}
	if err := s.members.AddMember(ctx, inv.ProjectID, userID); err != nil {
		return "", err
	}
	s.auditLog.Event(ctx, userID, auditdomain.ActionInviteAccepted, inv.ProjectID, inv.Email)
	return inv.ProjectID, nil
}

// TokenByEmail returns the open invitation token for email.
func (s *Service) TokenByEmail(ctx context.Context, email string) (string, error) {
	inv, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if inv == nil {
		return "", ErrInvitationNotFound
	}
	return inv.Token, nil
}

// Revoke deletes the invitation. Revoking an unknown token is a no-op.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}
