package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/mocks"
	"dm-lab/runtime"
)

type apiFixture struct {
	server          *httptest.Server
	messageService  *mocks.MockIMessageService
	scheduleService *mocks.MockIScheduleService
	token           string
}

func newAPIFixture(t *testing.T, userID string) apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	messageService := mocks.NewMockIMessageService(ctrl)
	scheduleService := mocks.NewMockIScheduleService(ctrl)
	handler := NewMessageHandler(messageService, scheduleService, slog.Default())
	stream := NewStreamHandler(runtime.NewRegistry(slog.Default()), 8, slog.Default())

	srv := NewServer("127.0.0.1", 0, handler, stream, slog.Default())
	testServer := httptest.NewServer(srv.Handler)
	t.Cleanup(testServer.Close)

	token, err := auth.GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	return apiFixture{
		server:          testServer,
		messageService:  messageService,
		scheduleService: scheduleService,
		token:           token,
	}
}

func (f apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func Test_Send_Returns_Persisted_Message(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	stored := domain.Message{ID: uuid.New(), SenderID: "alice", RecipientID: "bob", Kind: domain.KindText, Text: "hello"}
	f.messageService.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cmd domain.SendMessageCommand) (domain.Message, error) {
			// Sender comes from the token, not the body
			req.Equal("alice", cmd.SenderID)
			req.Equal("bob", cmd.RecipientID)
			return stored, nil
		}).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/send",
		SendMessageRequest{RecipientID: "bob", Text: "hello"})

	req.Equal(http.StatusCreated, resp.StatusCode)
	var message domain.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&message))
	req.Equal(stored.ID, message.ID)
}

func Test_Send_Maps_Validation_To_400(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	f.messageService.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(domain.Message{}, errors.ErrValidation).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/send",
		SendMessageRequest{RecipientID: "bob"})

	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func Test_Send_Rejects_Missing_Recipient_Before_Service(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	// No service expectation: the DTO validation stops the request
	resp := f.do(t, http.MethodPost, "/api/message/send",
		SendMessageRequest{Text: "orphan"})

	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func Test_Requests_Without_Token_Are_Rejected(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	resp, err := f.server.Client().Get(f.server.URL + "/api/message/recent")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_GetConversation_Returns_History(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	history := []domain.Message{{ID: uuid.New(), SenderID: "bob", RecipientID: "alice", Text: "ping"}}
	f.messageService.EXPECT().
		Conversation(domain.ConversationQuery{OwnerID: "alice", PeerID: "bob"}).
		Return(history, nil).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/get", GetConversationRequest{PeerID: "bob"})

	req.Equal(http.StatusOK, resp.StatusCode)
	var messages []domain.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&messages))
	req.Len(messages, 1)
}

func Test_Recent_Returns_Empty_Array_Not_Null(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	f.messageService.EXPECT().Recent("alice").Return(nil, nil).Times(1)

	resp := f.do(t, http.MethodGet, "/api/message/recent", nil)

	req.Equal(http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	req.NoError(err)
	req.JSONEq("[]", body.String())
}

func Test_Schedule_Echoes_Pending_Record(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	due := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	pending := domain.ScheduledMessage{ID: uuid.New(), SenderID: "alice", RecipientID: "bob", Text: "later", DueAt: due, Status: domain.StatusPending}
	f.scheduleService.EXPECT().
		Schedule(gomock.Any()).
		DoAndReturn(func(cmd domain.ScheduleMessageCommand) (domain.ScheduledMessage, error) {
			req.Equal("alice", cmd.SenderID)
			req.True(cmd.DueAt.Equal(due))
			return pending, nil
		}).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/schedule",
		ScheduleMessageRequest{RecipientID: "bob", Text: "later", DueAt: due})

	req.Equal(http.StatusCreated, resp.StatusCode)
	var sm domain.ScheduledMessage
	req.NoError(json.NewDecoder(resp.Body).Decode(&sm))
	req.Equal(domain.StatusPending, sm.Status)
}

func Test_CancelScheduled_Maps_Race_To_409(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	id := uuid.New().String()
	f.scheduleService.EXPECT().
		Cancel(domain.CancelScheduledCommand{ScheduledMessageID: id, RequesterID: "alice"}).
		Return(errors.ErrAlreadyResolved).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/cancel-scheduled",
		CancelScheduledRequest{ScheduledMessageID: id})

	req.Equal(http.StatusConflict, resp.StatusCode)
}

func Test_CancelScheduled_Maps_Foreign_Job_To_403(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "mallory")

	id := uuid.New().String()
	f.scheduleService.EXPECT().
		Cancel(gomock.Any()).
		Return(errors.ErrNotAuthorized).
		Times(1)

	resp := f.do(t, http.MethodPost, "/api/message/cancel-scheduled",
		CancelScheduledRequest{ScheduledMessageID: id})

	req.Equal(http.StatusForbidden, resp.StatusCode)
}

func Test_Search_Requires_Query(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	resp := f.do(t, http.MethodGet, "/api/message/search", nil)

	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func Test_Search_Returns_Matches(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, "alice")

	matches := []domain.Message{{ID: uuid.New(), Text: "the needle"}}
	f.messageService.EXPECT().
		Search(gomock.Any(), "alice", "needle", defaultSearchLimit).
		Return(matches, nil).
		Times(1)

	resp := f.do(t, http.MethodGet, "/api/message/search?q=needle", nil)

	req.Equal(http.StatusOK, resp.StatusCode)
	var messages []domain.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&messages))
	req.Len(messages, 1)
}
