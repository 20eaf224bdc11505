package domain

import (
	"errors"
	"time"
)

// ErrRosterDiverged reports that a project's team roster and its chat's
// participant roster no longer match as sets. The two are only ever written
// together, so divergence indicates a bug in the atomic-update path; callers
// must surface it and never retry.
var ErrRosterDiverged = errors.New("project team and chat participants diverged")

// Project is a collaboration project. The owner is always a team member, and
// the team roster must equal the paired chat's participant roster at all
// times outside a mutating operation.
type Project struct {
	ID          string
	Name        string
	Description string
	Category    string
	Tags        []string
	OwnerID     string
	ChatID      string
	Team        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the project for persistence.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.OwnerID == "" {
		return errors.New("owner is required")
	}
	return nil
}

// InTeam reports whether userID is on the team roster.
func (p *Project) InTeam(userID string) bool {
	for _, id := range p.Team {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTag reports whether the project carries the given tag.
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
