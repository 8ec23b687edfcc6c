package models

import (
	"github.com/google/uuid"
)

// Notification represents a message shown to a user, e.g. the session
// summary after committing an editing session.
type Notification struct {
	DefaultModel
	RecipientID uuid.UUID `json:"recipientId"`
	Title       string    `json:"title" example:"Budget lines updated"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"isRead" example:"false"`
}
