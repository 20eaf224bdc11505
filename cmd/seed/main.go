// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (devowner) already exists.
package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"project-collab-platform/internal/config"
	"project-collab-platform/internal/db"
	invitationdomain "project-collab-platform/internal/invitation/domain"
	invitationrepo "project-collab-platform/internal/invitation/repository"
	projectdomain "project-collab-platform/internal/project/domain"
	projectrepo "project-collab-platform/internal/project/repository"
	"project-collab-platform/internal/security"
	subscriptiondomain "project-collab-platform/internal/subscription/domain"
	subscriptionrepo "project-collab-platform/internal/subscription/repository"
	userdomain "project-collab-platform/internal/user/domain"
	userrepo "project-collab-platform/internal/user/repository"
)

const (
	devOwnerUsername  = "devowner"
	devMemberUsername = "devmember"
	devPassword       = "password123"
	devOwnerID        = "dev-user-001"
	devMemberID       = "dev-user-002"
	devProjectID      = "dev-project-001"
	devChatID         = "dev-chat-001"
	inviteEmail       = "invitee@example.com"
)

func main() {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	projects := projectrepo.NewPostgresRepository(conn)
	subscriptions := subscriptionrepo.NewPostgresRepository(conn)
	invitations := invitationrepo.NewPostgresRepository(conn)

	existing, err := users.GetByUsername(ctx, devOwnerUsername)
	if err != nil {
		log.Fatal("seed check", zap.Error(err))
	}
	if existing != nil {
		log.Info("seed already applied (devowner exists), skipping")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	owner := &userdomain.User{
		ID:           devOwnerID,
		Username:     devOwnerUsername,
		FullName:     "Dev Owner",
		PasswordHash: passwordHash,
		ProjectCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, owner); err != nil {
		log.Fatal("create dev owner", zap.Error(err))
	}

	member := &userdomain.User{
		ID:           devMemberID,
		Username:     devMemberUsername,
		FullName:     "Dev Member",
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, member); err != nil {
		log.Fatal("create dev member", zap.Error(err))
	}

	project := &projectdomain.Project{
		ID:          devProjectID,
		Name:        "Dev Project",
		Description: "Sample project for local development",
		Category:    "internal",
		Tags:        []string{"dev", "sample"},
		OwnerID:     devOwnerID,
		ChatID:      devChatID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := projects.Create(ctx, project); err != nil {
		log.Fatal("create project", zap.Error(err))
	}
	if err := projects.AddMember(ctx, devProjectID, devChatID, devMemberID); err != nil {
		log.Fatal("add member", zap.Error(err))
	}

	for _, userID := range []string{devOwnerID, devMemberID} {
		sub := &subscriptiondomain.Subscription{
			UserID:    userID,
			Plan:      subscriptiondomain.PlanFree,
			StartDate: today,
			EndDate:   today.AddDate(0, 12, 0),
			Active:    true,
		}
		if err := subscriptions.Create(ctx, sub); err != nil {
			log.Fatal("create subscription", zap.Error(err))
		}
	}

	inv := &invitationdomain.Invitation{
		Token:     "dev-invite-token-001",
		Email:     inviteEmail,
		ProjectID: devProjectID,
		CreatedAt: now,
	}
	if err := invitations.Create(ctx, inv); err != nil {
		log.Fatal("create invitation", zap.Error(err))
	}

	log.Info("seed applied",
		zap.String("owner", devOwnerUsername),
		zap.String("member", devMemberUsername),
		zap.String("project", devProjectID),
	)
}
