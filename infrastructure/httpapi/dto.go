package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageRequest carries everything but the sender: the sender id
// always comes from the verified token, never from the payload.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Text        string `json:"text"`
	MediaURL    string `json:"media_url" validate:"omitempty,url"`
	PostID      string `json:"post_id"`
}

type GetConversationRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

type ScheduleMessageRequest struct {
	RecipientID string    `json:"recipient_id" validate:"required"`
	Text        string    `json:"text" validate:"required"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

type CancelScheduledRequest struct {
	ScheduledMessageID string `json:"scheduled_message_id" validate:"required,uuid"`
}
