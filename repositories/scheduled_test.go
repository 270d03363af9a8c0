package repositories

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"dm-lab/domain"
	"dm-lab/errors"
)

func pendingJob(sender string, due time.Time) domain.ScheduledMessage {
	return domain.ScheduledMessage{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: "bob",
		Text:        "later",
		DueAt:       due,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func Test_Create_And_Get(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	sm := pendingJob("alice", time.Now().UTC().Add(time.Hour))
	req.NoError(repository.Create(sm))

	fetched, err := repository.Get(sm.ID)
	req.NoError(err)
	req.Equal(sm.ID, fetched.ID)
	req.Equal(domain.StatusPending, fetched.Status)

	_, err = repository.Get(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_TransitionStatus_CAS(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	sm := pendingJob("alice", time.Now().UTC().Add(time.Hour))
	req.NoError(repository.Create(sm))

	// First transition wins
	req.NoError(repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusCancelled))

	// Any later transition away from pending loses
	err := repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusSent)
	req.ErrorIs(err, errors.ErrAlreadyResolved)

	fetched, err := repository.Get(sm.ID)
	req.NoError(err)
	req.Equal(domain.StatusCancelled, fetched.Status)

	err = repository.TransitionStatus(uuid.New(), domain.StatusPending, domain.StatusSent)
	req.ErrorIs(err, errors.ErrNotFound)
}

// Concurrent fire and cancel must produce exactly one winner.
func Test_TransitionStatus_Concurrent_Single_Winner(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	for i := 0; i < 20; i++ {
		sm := pendingJob("alice", time.Now().UTC().Add(time.Hour))
		req.NoError(repository.Create(sm))

		var wg sync.WaitGroup
		results := make([]error, 2)
		transitions := []domain.ScheduledStatus{domain.StatusSent, domain.StatusCancelled}
		for j, to := range transitions {
			wg.Add(1)
			go func(j int, to domain.ScheduledStatus) {
				defer wg.Done()
				results[j] = repository.TransitionStatus(sm.ID, domain.StatusPending, to)
			}(j, to)
		}
		wg.Wait()

		winners := lo.CountBy(results, func(err error) bool { return err == nil })
		req.Equal(1, winners, "exactly one of fire/cancel must win")

		fetched, err := repository.Get(sm.ID)
		req.NoError(err)
		req.True(fetched.Status.Terminal())
	}
}

func Test_ListBySender_Ordered_By_Due_Time(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	now := time.Now().UTC()
	late := pendingJob("alice", now.Add(2*time.Hour))
	early := pendingJob("alice", now.Add(1*time.Hour))
	other := pendingJob("clara", now.Add(30*time.Minute))
	for _, sm := range []domain.ScheduledMessage{late, early, other} {
		req.NoError(repository.Create(sm))
	}

	pending := domain.StatusPending
	jobs, err := repository.ListBySender("alice", &pending)
	req.NoError(err)
	req.Len(jobs, 2)
	req.Equal(early.ID, jobs[0].ID)
	req.Equal(late.ID, jobs[1].ID)

	// Resolved jobs drop out of the pending view but stay retrievable
	req.NoError(repository.TransitionStatus(early.ID, domain.StatusPending, domain.StatusCancelled))
	jobs, err = repository.ListBySender("alice", &pending)
	req.NoError(err)
	req.Len(jobs, 1)
	req.Equal(late.ID, jobs[0].ID)
}

func Test_ListByStatus_For_Rehydration(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	now := time.Now().UTC()
	a := pendingJob("alice", now.Add(2*time.Minute))
	b := pendingJob("bob", now.Add(1*time.Minute))
	c := pendingJob("clara", now.Add(3*time.Minute))
	for _, sm := range []domain.ScheduledMessage{a, b, c} {
		req.NoError(repository.Create(sm))
	}
	req.NoError(repository.TransitionStatus(c.ID, domain.StatusPending, domain.StatusSent))

	jobs, err := repository.ListByStatus(domain.StatusPending)
	req.NoError(err)
	req.Len(jobs, 2)
	req.Equal(b.ID, jobs[0].ID, "rehydration list is due-time ascending")
	req.Equal(a.ID, jobs[1].ID)
}

func Test_AttachMessage(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewScheduledMessageRepository(db, slog.Default())

	sm := pendingJob("alice", time.Now().UTC().Add(time.Second))
	req.NoError(repository.Create(sm))
	req.NoError(repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusSent))

	messageID := uuid.New()
	req.NoError(repository.AttachMessage(sm.ID, messageID))

	fetched, err := repository.Get(sm.ID)
	req.NoError(err)
	req.NotNil(fetched.MessageID)
	req.Equal(messageID, *fetched.MessageID)
}
