package domain

import (
	"time"

	"github.com/google/uuid"
)

type ScheduledStatus string

const (
	StatusPending   ScheduledStatus = "pending"
	StatusSent      ScheduledStatus = "sent"
	StatusCancelled ScheduledStatus = "cancelled"
	StatusFailed    ScheduledStatus = "failed"
)

// Terminal reports whether the status can never transition again.
// Only pending jobs may move.
func (s ScheduledStatus) Terminal() bool {
	return s != StatusPending
}

// ScheduledMessage is a deferred text send. It is retained after
// resolution as an audit trail and never deleted.
type ScheduledMessage struct {
	ID          uuid.UUID       `json:"id"`
	SenderID    string          `json:"sender_id"`
	RecipientID string          `json:"recipient_id"`
	Text        string          `json:"text"`
	DueAt       time.Time       `json:"due_at"`
	Status      ScheduledStatus `json:"status"`
	// MessageID is set by the fire path once the real message exists.
	MessageID *uuid.UUID `json:"message_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
