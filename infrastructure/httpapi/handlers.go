package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/services"
)

const defaultSearchLimit = 20

// MessageHandler exposes the message surface over JSON/HTTP. Every
// route reads the acting user from the token context; payload-supplied
// sender ids are ignored by construction.
type MessageHandler struct {
	messageService  services.IMessageService
	scheduleService services.IScheduleService
	log             *slog.Logger
}

func NewMessageHandler(messageService services.IMessageService,
	scheduleService services.IScheduleService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageService:  messageService,
		scheduleService: scheduleService,
		log:             log,
	}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	var req SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	message, err := h.messageService.Send(r.Context(), domain.SendMessageCommand{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Text:        req.Text,
		MediaURL:    req.MediaURL,
		PostID:      req.PostID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	var req GetConversationRequest
	if !h.decode(w, r, &req) {
		return
	}

	messages, err := h.messageService.Conversation(domain.ConversationQuery{
		OwnerID: userID,
		PeerID:  req.PeerID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, orEmptyMessages(messages))
}

func (h *MessageHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	messages, err := h.messageService.Recent(userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, orEmptyMessages(messages))
}

func (h *MessageHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	var req ScheduleMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	sm, err := h.scheduleService.Schedule(domain.ScheduleMessageCommand{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Text:        req.Text,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusCreated, sm)
}

func (h *MessageHandler) ListScheduled(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	jobs, err := h.scheduleService.ListPending(userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if jobs == nil {
		jobs = []domain.ScheduledMessage{}
	}
	h.respond(w, http.StatusOK, jobs)
}

func (h *MessageHandler) CancelScheduled(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	var req CancelScheduledRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.scheduleService.Cancel(domain.CancelScheduledCommand{
		ScheduledMessageID: req.ScheduledMessageID,
		RequesterID:        userID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"status": string(domain.StatusCancelled)})
}

func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	terms := r.URL.Query().Get("q")
	if terms == "" {
		h.fail(w, fmt.Errorf("%w: query parameter q is required", errors.ErrValidation))
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.fail(w, fmt.Errorf("%w: limit must be a positive integer", errors.ErrValidation))
			return
		}
		limit = parsed
	}

	messages, err := h.messageService.Search(r.Context(), userID, terms, limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, http.StatusOK, orEmptyMessages(messages))
}

// decode unmarshals and validates the request body; on failure it has
// already written the error response.
func (h *MessageHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, fmt.Errorf("%w: malformed JSON body", errors.ErrValidation))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.fail(w, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return false
	}
	return true
}

func (h *MessageHandler) fail(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (h *MessageHandler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Writing response failed", "error", err)
	}
}

// orEmptyMessages keeps list endpoints returning [] instead of null.
func orEmptyMessages(messages []domain.Message) []domain.Message {
	if messages == nil {
		return []domain.Message{}
	}
	return messages
}
