package domain

import "time"

// AuditEvent records one domain event (login, membership change, plan change)
// for the activity trail.
type AuditEvent struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the core services.
const (
	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionProjectCreated = "project_created"
	ActionProjectDeleted = "project_deleted"
	ActionMemberAdded    = "member_added"
	ActionMemberRemoved  = "member_removed"
	ActionInviteSent     = "invite_sent"
	ActionInviteAccepted = "invite_accepted"
	ActionPlanUpgraded   = "plan_upgraded"
)
