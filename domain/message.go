// Package domain contains core concepts of the direct-message system.
// Messages are immutable once persisted, except for the seen flag
// which the recipient's read path flips.
package domain

import (
	"time"

	"github.com/google/uuid"

	"dm-lab/errors"
)

type MessageKind string

const (
	KindText       MessageKind = "text"
	KindImage      MessageKind = "image"
	KindSharedPost MessageKind = "shared_post"
)

// Message represents one direct message between two users.
type Message struct {
	ID          uuid.UUID   `json:"id"`
	SenderID    string      `json:"sender_id"`
	RecipientID string      `json:"recipient_id"`
	Kind        MessageKind `json:"kind"`
	Text        string      `json:"text,omitempty"`
	MediaURL    string      `json:"media_url,omitempty"`
	PostID      string      `json:"post_id,omitempty"`
	Seen        bool        `json:"seen"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DeriveKind decides the message kind from the payload, media first,
// then referenced post, then plain text. The kind is fixed at creation.
func DeriveKind(text, mediaURL, postID string) MessageKind {
	switch {
	case mediaURL != "":
		return KindImage
	case postID != "":
		return KindSharedPost
	default:
		return KindText
	}
}

// ValidatePayload enforces the kind-specific payload shape:
// text and shared_post carry text, image carries a media reference.
func ValidatePayload(kind MessageKind, text, mediaURL string) error {
	switch kind {
	case KindText, KindSharedPost:
		if text == "" {
			return errors.ErrValidation
		}
	case KindImage:
		if mediaURL == "" {
			return errors.ErrValidation
		}
	default:
		return errors.ErrValidation
	}
	return nil
}

// PairKey returns the canonical conversation key of two user ids,
// identical regardless of direction.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
