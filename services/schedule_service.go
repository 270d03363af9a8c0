//go:generate go run go.uber.org/mock/mockgen -source=schedule_service.go -destination=../mocks/mock_schedule_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
)

type IScheduleService interface {
	Schedule(cmd domain.ScheduleMessageCommand) (domain.ScheduledMessage, error)
	Cancel(cmd domain.CancelScheduledCommand) error
	ListPending(senderID string) ([]domain.ScheduledMessage, error)
}

// JobAdmitter hands a freshly persisted job to the dispatch loop.
type JobAdmitter interface {
	Admit(sm domain.ScheduledMessage)
}

type ScheduleService struct {
	repository repositories.IScheduledMessageRepository
	admitter   JobAdmitter
	log        *slog.Logger
	now        func() time.Time
}

func NewScheduleService(repository repositories.IScheduledMessageRepository,
	admitter JobAdmitter, log *slog.Logger) *ScheduleService {
	return &ScheduleService{repository: repository, admitter: admitter, log: log, now: time.Now}
}

// Schedule persists the job first, then admits it to the dispatch loop.
// The due time must be strictly in the future at admission.
func (s *ScheduleService) Schedule(cmd domain.ScheduleMessageCommand) (domain.ScheduledMessage, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return domain.ScheduledMessage{}, fmt.Errorf("%w: a scheduled message needs a text", errors.ErrValidation)
	}
	if cmd.RecipientID == "" {
		return domain.ScheduledMessage{}, fmt.Errorf("%w: a scheduled message needs a recipient", errors.ErrValidation)
	}
	now := s.now().UTC()
	if !cmd.DueAt.After(now) {
		return domain.ScheduledMessage{}, fmt.Errorf("%w: due time %s is not in the future", errors.ErrValidation, cmd.DueAt)
	}

	sm := domain.ScheduledMessage{
		ID:          uuid.New(),
		SenderID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		Text:        cmd.Text,
		DueAt:       cmd.DueAt.UTC(),
		Status:      domain.StatusPending,
		CreatedAt:   now,
	}
	if err := s.repository.Create(sm); err != nil {
		return domain.ScheduledMessage{}, err
	}
	s.admitter.Admit(sm)
	s.log.Info("Scheduled message admitted",
		"scheduled_id", sm.ID, "sender_id", sm.SenderID, "due_at", sm.DueAt)
	return sm, nil
}

// Cancel resolves a pending job to cancelled. Ownership is checked
// before status so a foreign id never leaks whether it was resolved.
func (s *ScheduleService) Cancel(cmd domain.CancelScheduledCommand) error {
	id, err := uuid.Parse(cmd.ScheduledMessageID)
	if err != nil {
		return fmt.Errorf("%w: malformed scheduled message id", errors.ErrValidation)
	}
	sm, err := s.repository.Get(id)
	if err != nil {
		return err
	}
	if sm.SenderID != cmd.RequesterID {
		return errors.ErrNotAuthorized
	}
	// The conditional transition decides the race against the dispatch
	// loop: if the job fired in the meantime this returns ErrAlreadyResolved.
	return s.repository.TransitionStatus(id, domain.StatusPending, domain.StatusCancelled)
}

func (s *ScheduleService) ListPending(senderID string) ([]domain.ScheduledMessage, error) {
	pending := domain.StatusPending
	return s.repository.ListBySender(senderID, &pending)
}
