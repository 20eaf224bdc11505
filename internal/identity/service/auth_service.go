package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"project-collab-platform/internal/audit"
	auditdomain "project-collab-platform/internal/audit/domain"
	"project-collab-platform/internal/security"
	subscriptiondomain "project-collab-platform/internal/subscription/domain"
	userdomain "project-collab-platform/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to transport codes.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken mirrors security.ErrInvalidToken so callers can check
	// either package.
	ErrInvalidToken = security.ErrInvalidToken
)

// Principal is a resolved, authenticated identity. Immutable once returned.
type Principal struct {
	ID       string
	Username string
}

// AuthResult holds the outcome of Signup or Login: a session token and its
// expiry, plus the authenticated principal.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SubscriptionCreator starts a new user on the FREE plan. Signup always calls
// it, which is what lets the subscription service treat a missing record as a
// precondition violation.
type SubscriptionCreator interface {
	Create(ctx context.Context, userID string) (*subscriptiondomain.Subscription, error)
}

// TokenIssuer issues and validates session tokens for a subject username.
type TokenIssuer interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
	Subject(token string) (string, error)
}

// AuthService implements signup, login, and session token validation.
type AuthService struct {
	userRepo      UserRepo
	subscriptions SubscriptionCreator
	hasher        *security.Hasher
	tokens        TokenIssuer
	auditLog      audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(userRepo UserRepo, subscriptions SubscriptionCreator, hasher *security.Hasher, tokens TokenIssuer, auditLog audit.AuditLogger) *AuthService {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &AuthService{
		userRepo:      userRepo,
		subscriptions: subscriptions,
		hasher:        hasher,
		tokens:        tokens,
		auditLog:      auditLog,
	}
}

// Signup creates a user with the given username and password, starts their
// FREE subscription, and returns a session token.
func (s *AuthService) Signup(ctx context.Context, username, fullName, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.subscriptions.Create(ctx, user.ID); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(username)
	if err != nil {
		return nil, err
	}
	s.auditLog.Event(ctx, user.ID, auditdomain.ActionSignup, user.ID, username)
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: Principal{ID: user.ID, Username: user.Username},
	}, nil
}

// Login authenticates username/password and returns a fresh session token.
// Failures collapse to ErrInvalidCredentials; a caller learns nothing about
// which part was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(username)
	if err != nil {
		return nil, err
	}
	s.auditLog.Event(ctx, user.ID, auditdomain.ActionLogin, user.ID, "")
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: Principal{ID: user.ID, Username: user.Username},
	}, nil
}

// Validate checks the session token and resolves its subject to an existing
// user. A verifiable token whose subject no longer exists is just as invalid
// as a forged one.
func (s *AuthService) Validate(ctx context.Context, token string) (*Principal, error) {
	username, err := s.tokens.Subject(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return &Principal{ID: user.ID, Username: user.Username}, nil
}

func validateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
