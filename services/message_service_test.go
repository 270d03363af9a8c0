package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/mocks"
)

// fakeDeliverer echoes the command back as a stored message.
type fakeDeliverer struct {
	lastCmd domain.SendMessageCommand
	err     error
}

func (f *fakeDeliverer) Deliver(_ context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	f.lastCmd = cmd
	if f.err != nil {
		return domain.Message{}, f.err
	}
	return domain.Message{ID: uuid.New(), SenderID: cmd.SenderID, RecipientID: cmd.RecipientID, Text: cmd.Text}, nil
}

type fakeIndex struct {
	keys []string
	err  error
}

func (f *fakeIndex) IndexMessage(string, domain.Message) error { return nil }

func (f *fakeIndex) Search(context.Context, string, string, int) ([]string, error) {
	return f.keys, f.err
}

func TestMessageService_Send_Delegates_To_Pipeline(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deliverer := &fakeDeliverer{}
	svc := NewMessageService(deliverer, mocks.NewMockIMessageRepository(ctrl), &fakeIndex{}, slog.Default())

	cmd := domain.SendMessageCommand{SenderID: "alice", RecipientID: "bob", Text: "hi", CreatedAt: time.Now().UTC()}
	message, err := svc.Send(context.Background(), cmd)

	req.NoError(err)
	req.Equal(cmd, deliverer.lastCmd)
	req.Equal("hi", message.Text)
}

func TestMessageService_Conversation_Flips_Seen(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIMessageRepository(ctrl)
	svc := NewMessageService(&fakeDeliverer{}, mockRepo, &fakeIndex{}, slog.Default())

	history := []domain.Message{{ID: uuid.New(), SenderID: "bob", RecipientID: "alice", Text: "ping"}}
	mockRepo.EXPECT().Conversation("alice", "bob").Return(history, nil).Times(1)
	// Fetching a conversation marks the peer's messages as seen
	mockRepo.EXPECT().MarkConversationSeen("alice", "bob").Return(1, nil).Times(1)

	messages, err := svc.Conversation(domain.ConversationQuery{OwnerID: "alice", PeerID: "bob"})

	req.NoError(err)
	req.Equal(history, messages)
}

func TestMessageService_Conversation_Survives_Seen_Failure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIMessageRepository(ctrl)
	svc := NewMessageService(&fakeDeliverer{}, mockRepo, &fakeIndex{}, slog.Default())

	history := []domain.Message{{ID: uuid.New(), SenderID: "bob", RecipientID: "alice"}}
	mockRepo.EXPECT().Conversation("alice", "bob").Return(history, nil).Times(1)
	mockRepo.EXPECT().MarkConversationSeen("alice", "bob").Return(0, errors.ErrDeliveryFailure).Times(1)

	messages, err := svc.Conversation(domain.ConversationQuery{OwnerID: "alice", PeerID: "bob"})

	req.NoError(err, "a failed seen flip does not fail the read")
	req.Equal(history, messages)
}

func TestMessageService_Search_Resolves_Hits(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIMessageRepository(ctrl)
	index := &fakeIndex{keys: []string{"key-live", "key-gone"}}
	svc := NewMessageService(&fakeDeliverer{}, mockRepo, index, slog.Default())

	live := domain.Message{ID: uuid.New(), SenderID: "bob", RecipientID: "alice", Text: "found me"}
	mockRepo.EXPECT().GetByKey("key-live").Return(live, nil).Times(1)
	// A hit whose record disappeared is skipped, not fatal
	mockRepo.EXPECT().GetByKey("key-gone").Return(domain.Message{}, errors.ErrNotFound).Times(1)

	messages, err := svc.Search(context.Background(), "alice", "found", 10)

	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("found me", messages[0].Text)
}
