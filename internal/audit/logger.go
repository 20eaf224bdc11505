package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-collab-platform/internal/audit/domain"
	auditrepo "project-collab-platform/internal/audit/repository"
)

// SentinelUserID is the user_id used for events that have no actor (e.g. failed logins).
const SentinelUserID = "_system"

// AuditLogger writes a single audit event with explicit action/resource.
// Event is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	Event(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
	log  *zap.Logger
}

// NewLogger returns an AuditLogger that persists to repo. log may be nil; then
// persistence failures are dropped silently.
func NewLogger(repo auditrepo.Repository, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{repo: repo, log: log}
}

// Event writes one audit event. Best-effort: errors are logged and not returned.
func (l *Logger) Event(ctx context.Context, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	if userID == "" {
		userID = SentinelUserID
	}
	entry := &domain.AuditEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("audit event not persisted",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}

// Nop returns an AuditLogger that discards all events. Useful in tests and
// callers that have no audit store.
func Nop() AuditLogger {
	return &Logger{}
}
