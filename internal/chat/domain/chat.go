package domain

import "time"

// Chat is the one-to-one discussion channel paired with a project. Its
// participant roster mirrors the project's team roster.
type Chat struct {
	ID           string
	ProjectID    string
	Participants []string
	CreatedAt    time.Time
}

// HasParticipant reports whether userID is in the participant roster.
func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single chat message.
type Message struct {
	ID       string
	ChatID   string
	SenderID string
	Content  string
	SentAt   time.Time
}
