package domain

import "time"

// SendMessageCommand is the delivery pipeline input for an immediate or
// fired-from-schedule send.
type SendMessageCommand struct {
	SenderID    string
	RecipientID string
	Text        string
	MediaURL    string
	PostID      string
	CreatedAt   time.Time
}

// ScheduleMessageCommand defers a text send to a future due time.
type ScheduleMessageCommand struct {
	SenderID    string
	RecipientID string
	Text        string
	DueAt       time.Time
}

type CancelScheduledCommand struct {
	ScheduledMessageID string
	RequesterID        string
}

// ConversationQuery fetches the message history between the owner and a peer.
type ConversationQuery struct {
	OwnerID string
	PeerID  string
}
