package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"project-collab-platform/internal/invitation/domain"
	projectdomain "project-collab-platform/internal/project/domain"
)

type memInvitationRepo struct {
	mu      sync.Mutex
	byToken map[string]*domain.Invitation
}

func newMemInvitationRepo() *memInvitationRepo {
	return &memInvitationRepo{byToken: make(map[string]*domain.Invitation)}
}

func (r *memInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	i2 := *inv
	return &i2, nil
}

func (r *memInvitationRepo) GetByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Invitation
	for _, inv := range r.byToken {
		if inv.Email != email {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, nil
	}
	i2 := *latest
	return &i2, nil
}

func (r *memInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i2 := *inv
	r.byToken[inv.Token] = &i2
	return nil
}

func (r *memInvitationRepo) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
	return nil
}

type memProjectReader struct {
	byID map[string]*projectdomain.Project
}

func (r *memProjectReader) GetByID(ctx context.Context, id string) (*projectdomain.Project, error) {
	return r.byID[id], nil
}

// memMemberAdder records adds and mirrors the project service's idempotence.
type memMemberAdder struct {
	mu    sync.Mutex
	added map[string][]string // projectID -> user IDs
	calls int
}

func newMemMemberAdder() *memMemberAdder {
	return &memMemberAdder{added: make(map[string][]string)}
}

func (m *memMemberAdder) AddMember(ctx context.Context, projectID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, id := range m.added[projectID] {
		if id == userID {
			return nil
		}
	}
	m.added[projectID] = append(m.added[projectID], userID)
	return nil
}

type recordingMailer struct {
	mu    sync.Mutex
	sent  []string // "email link" pairs
	links []string
}

func (m *recordingMailer) SendInvitation(ctx context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	m.links = append(m.links, link)
	return nil
}

const baseURL = "http://localhost:8080/accept_invitation"

func newTestService() (*Service, *memInvitationRepo, *memMemberAdder, *recordingMailer) {
	repo := newMemInvitationRepo()
	projects := &memProjectReader{byID: map[string]*projectdomain.Project{
		"p1": {ID: "p1", Name: "Apollo", OwnerID: "alice", ChatID: "c1", Team: []string{"alice", "bob"}},
	}}
	members := newMemMemberAdder()
	mailer := &recordingMailer{}
	return NewService(repo, projects, members, mailer, nil, baseURL), repo, members, mailer
}

func TestService_Send(t *testing.T) {
	svc, repo, _, mailer := newTestService()
	ctx := context.Background()

	inv, err := svc.Send(ctx, "carol@example.com", "p1", "alice")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if inv.Token == "" {
		t.Fatal("Send returned empty token")
	}
	if inv.ProjectID != "p1" || inv.Email != "carol@example.com" {
		t.Errorf("invitation = %+v", inv)
	}

	stored, _ := repo.GetByToken(ctx, inv.Token)
	if stored == nil {
		t.Fatal("invitation not persisted")
	}

	if len(mailer.sent) != 1 || mailer.sent[0] != "carol@example.com" {
		t.Fatalf("mail recipients = %v", mailer.sent)
	}
	wantLink := baseURL + "?token=" + inv.Token
	if mailer.links[0] != wantLink {
		t.Errorf("link = %q, want %q", mailer.links[0], wantLink)
	}
}

func TestService_SendRequiresTeamMembership(t *testing.T) {
	svc, _, _, mailer := newTestService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, "carol@example.com", "p1", "mallory"); err != ErrNotAuthorized {
		t.Errorf("Send by outsider: want ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.Send(ctx, "carol@example.com", "missing", "alice"); err != ErrProjectNotFound {
		t.Errorf("Send for missing project: want ErrProjectNotFound, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("mail sent on rejected invitations: %v", mailer.sent)
	}
}

func TestService_AcceptRoundTrip(t *testing.T) {
	svc, _, members, _ := newTestService()
	ctx := context.Background()

	inv, err := svc.Send(ctx, "carol@example.com", "p1", "alice")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	projectID, err := svc.Accept(ctx, inv.Token, "carol")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if projectID != "p1" {
		t.Errorf("Accept project = %q, want p1", projectID)
	}
	if got := members.added["p1"]; len(got) != 1 || got[0] != "carol" {
		t.Errorf("members added = %v, want [carol]", got)
	}
}

func TestService_AcceptTwiceIsNoop(t *testing.T) {
	svc, repo, members, _ := newTestService()
	ctx := context.Background()

	inv, _ := svc.Send(ctx, "carol@example.com", "p1", "alice")
	for i := 0; i < 2; i++ {
		if _, err := svc.Accept(ctx, inv.Token, "carol"); err != nil {
			t.Fatalf("Accept #%d: %v", i+1, err)
		}
	}
	if got := members.added["p1"]; len(got) != 1 {
		t.Errorf("members added = %v, want exactly one carol", got)
	}
	// The token survives acceptance.
	stored, _ := repo.GetByToken(ctx, inv.Token)
	if stored == nil {
		t.Error("token consumed by accept; it should stay resolvable")
	}
}

func TestService_AcceptUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Accept(context.Background(), "bogus", "carol"); err != ErrInvalidInvitation {
		t.Errorf("Accept bogus token: want ErrInvalidInvitation, got %v", err)
	}
}

func TestService_TokenByEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	inv, _ := svc.Send(ctx, "carol@example.com", "p1", "alice")

	token, err := svc.TokenByEmail(ctx, "carol@example.com")
	if err != nil {
		t.Fatalf("TokenByEmail: %v", err)
	}
	if token != inv.Token {
		t.Errorf("token = %q, want %q", token, inv.Token)
	}

	if _, err := svc.TokenByEmail(ctx, "nobody@example.com"); err != ErrInvitationNotFound {
		t.Errorf("TokenByEmail unknown: want ErrInvitationNotFound, got %v", err)
	}
}

func TestService_Revoke(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	inv, _ := svc.Send(ctx, "carol@example.com", "p1", "alice")
	if err := svc.Revoke(ctx, inv.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Accept(ctx, inv.Token, "carol"); err != ErrInvalidInvitation {
		t.Errorf("Accept after revoke: want ErrInvalidInvitation, got %v", err)
	}
	// Revoking again is a no-op.
	if err := svc.Revoke(ctx, inv.Token); err != nil {
		t.Errorf("second Revoke: %v", err)
	}
}

func TestService_TokenIsOpaque(t *testing.T) {
	svc, _, _, _ := newTestService()
	inv, err := svc.Send(context.Background(), "carol@example.com", "p1", "alice")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if strings.Contains(inv.Token, "carol") || strings.Contains(inv.Token, "p1") {
		t.Errorf("token %q leaks invitation fields", inv.Token)
	}
}
