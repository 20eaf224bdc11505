package domain

import "time"

// Invitation binds an email address to a project through an opaque random
// token. A token has no expiry; it lives until explicitly revoked. Accepting
// one delegates the membership change to the project coordinator, so
// re-acceptance is harmless.
type Invitation struct {
	Token     string
	Email     string
	ProjectID string
	CreatedAt time.Time
}
