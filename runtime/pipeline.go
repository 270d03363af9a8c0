package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/errors"
	"dm-lab/moderation"
	"dm-lab/repositories"
	"dm-lab/search"
)

// Deliverer is the single path by which any message, immediate or
// fired-from-schedule, becomes durable and (best-effort) live-delivered.
type Deliverer interface {
	Deliver(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
}

type Pipeline struct {
	messages  repositories.IMessageRepository
	posts     repositories.IPostRepository
	registry  contract.IRegistry
	index     search.IIndex
	moderator *moderation.Moderator
	log       *slog.Logger
}

// NewPipeline wires the delivery path. index and moderator may be nil;
// both are best-effort stages.
func NewPipeline(messages repositories.IMessageRepository, posts repositories.IPostRepository,
	registry contract.IRegistry, index search.IIndex, moderator *moderation.Moderator,
	log *slog.Logger) *Pipeline {
	return &Pipeline{
		messages:  messages,
		posts:     posts,
		registry:  registry,
		index:     index,
		moderator: moderator,
		log:       log,
	}
}

// Deliver validates, persists, then pushes. Persistence must succeed
// before any live push is attempted; everything after the store write
// is best-effort and never fails the send.
func (p *Pipeline) Deliver(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	kind := domain.DeriveKind(cmd.Text, cmd.MediaURL, cmd.PostID)
	if err := domain.ValidatePayload(kind, cmd.Text, cmd.MediaURL); err != nil {
		return domain.Message{}, err
	}

	text := cmd.Text
	if p.moderator != nil && text != "" {
		censored, found := p.moderator.Censor(text)
		if len(found) > 0 {
			info := whatlanggo.Detect(text)
			p.log.Info("Censored outbound message",
				"sender_id", cmd.SenderID,
				"words", len(found),
				"lang", info.Lang.Iso6391())
			text = censored
		}
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	message := domain.Message{
		ID:          uuid.New(),
		SenderID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		Kind:        kind,
		Text:        text,
		MediaURL:    cmd.MediaURL,
		PostID:      cmd.PostID,
		CreatedAt:   createdAt,
	}
	if err := p.messages.Store(message); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrDeliveryFailure, err)
	}

	if kind == domain.KindSharedPost {
		if err := p.posts.AddShare(cmd.PostID, cmd.SenderID); err != nil {
			p.log.Warn("Recording share failed", "post_id", cmd.PostID, "error", err)
		}
	}

	if p.index != nil {
		if err := p.index.IndexMessage(repositories.MessageKey(message), message); err != nil {
			p.log.Warn("Indexing message failed", "message_id", message.ID, "error", err)
		}
	}

	delivered := p.registry.Push(ctx, message.RecipientID, p.resolve(message))
	p.log.Debug("Message persisted",
		"message_id", message.ID,
		"kind", kind,
		"live_delivered", delivered)

	return message, nil
}

// resolve builds the stream event, embedding the referenced post's
// summary for shared_post messages so clients render without a refetch.
func (p *Pipeline) resolve(message domain.Message) event.MessageDelivered {
	evt := event.MessageDelivered{Message: message}
	if message.Kind != domain.KindSharedPost {
		return evt
	}
	summary, err := p.posts.Get(message.PostID)
	if err != nil {
		p.log.Debug("Referenced post has no summary", "post_id", message.PostID)
		return evt
	}
	evt.Post = &summary
	return evt
}
