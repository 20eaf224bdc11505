package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	chatdomain "project-collab-platform/internal/chat/domain"
	chatrepo "project-collab-platform/internal/chat/repository"
	"project-collab-platform/internal/security"
	userdomain "project-collab-platform/internal/user/domain"
)

// Sentinel errors for the message service.
var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrNotParticipant = errors.New("user is not a chat participant")
	ErrEmptyMessage   = errors.New("message content is empty")
)

// SubjectExtractor resolves the subject username from a bearer token string
// without a full validation round-trip against the user store.
type SubjectExtractor interface {
	Subject(token string) (string, error)
}

// UserRepo is the minimal user repository needed by the message service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// Service posts and lists chat messages. The sender is resolved from the
// bearer token the request arrived with.
type Service struct {
	repo     chatrepo.Repository
	userRepo UserRepo
	tokens   SubjectExtractor
	nowF     func() time.Time
}

// NewService returns a message Service with the given dependencies.
func NewService(repo chatrepo.Repository, userRepo UserRepo, tokens SubjectExtractor) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		tokens:   tokens,
		nowF:     time.Now().UTC,
	}
}

// Post resolves the sender from bearer, requires them to be a participant of
// the project's chat, and appends the message.
func (s *Service) Post(ctx context.Context, bearer, projectID, content string) (*chatdomain.Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	username, err := s.tokens.Subject(bearer)
	if err != nil {
		return nil, security.ErrInvalidToken
	}
	sender, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, security.ErrInvalidToken
	}
	chat, err := s.repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasParticipant(sender.ID) {
		return nil, ErrNotParticipant
	}
	m := &chatdomain.Message{
		ID:       uuid.New().String(),
		ChatID:   chat.ID,
		SenderID: sender.ID,
		Content:  content,
		SentAt:   s.nowF(),
	}
	if err := s.repo.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// History returns the project's chat messages, oldest first. The requester
// must be a participant.
func (s *Service) History(ctx context.Context, bearer, projectID string, limit int) ([]*chatdomain.Message, error) {
	username, err := s.tokens.Subject(bearer)
	if err != nil {
		return nil, security.ErrInvalidToken
	}
	requester, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, security.ErrInvalidToken
	}
	chat, err := s.repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasParticipant(requester.ID) {
		return nil, ErrNotParticipant
	}
	return s.repo.ListMessages(ctx, chat.ID, limit)
}
