package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Username is the login identifier and the
// subject encoded into session tokens.
type User struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
	ProjectCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
