package event

import "dm-lab/domain"

// DomainEvent is anything the fanout side can hand to a live channel.
type DomainEvent interface {
	UserID() string
}

// MessageDelivered is the unit written to a recipient's live stream:
// the persisted message, fully resolved (post summary when the message
// shares a post).
type MessageDelivered struct {
	Message domain.Message      `json:"message"`
	Post    *domain.PostSummary `json:"post,omitempty"`
}

func (m MessageDelivered) UserID() string {
	return m.Message.RecipientID
}
