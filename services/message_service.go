//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"dm-lab/domain"
	"dm-lab/repositories"
	"dm-lab/runtime"
	"dm-lab/search"
)

type IMessageService interface {
	Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	Conversation(query domain.ConversationQuery) ([]domain.Message, error)
	Recent(userID string) ([]domain.Message, error)
	Search(ctx context.Context, userID, terms string, limit int) ([]domain.Message, error)
}

type MessageService struct {
	pipeline runtime.Deliverer
	messages repositories.IMessageRepository
	index    search.IIndex
	log      *slog.Logger
}

func NewMessageService(pipeline runtime.Deliverer, messages repositories.IMessageRepository,
	index search.IIndex, log *slog.Logger) *MessageService {
	return &MessageService{pipeline: pipeline, messages: messages, index: index, log: log}
}

func (s *MessageService) Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	return s.pipeline.Deliver(ctx, cmd)
}

// Conversation returns the pair's history and flips the seen flag on
// everything the peer sent the owner, mirroring the read-path behavior
// clients expect from the poll fallback.
func (s *MessageService) Conversation(query domain.ConversationQuery) ([]domain.Message, error) {
	messages, err := s.messages.Conversation(query.OwnerID, query.PeerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.MarkConversationSeen(query.OwnerID, query.PeerID); err != nil {
		s.log.Warn("Marking conversation seen failed",
			"owner_id", query.OwnerID, "error", err)
	}
	return messages, nil
}

func (s *MessageService) Recent(userID string) ([]domain.Message, error) {
	return s.messages.RecentForUser(userID)
}

// Search resolves index hits back through the message store; a hit
// whose record vanished is skipped rather than failing the query.
func (s *MessageService) Search(ctx context.Context, userID, terms string, limit int) ([]domain.Message, error) {
	keys, err := s.index.Search(ctx, userID, terms, limit)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	for _, key := range keys {
		message, err := s.messages.GetByKey(key)
		if err != nil {
			s.log.Debug("Search hit without backing record", "key", key)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}
