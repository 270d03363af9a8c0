package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
)

// fakeDeliverer records deliveries and can fail a configured number of
// times before succeeding.
type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []domain.SendMessageCommand
	failures  int
}

func (f *fakeDeliverer) Deliver(_ context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return domain.Message{}, errors.ErrDeliveryFailure
	}
	f.delivered = append(f.delivered, cmd)
	return domain.Message{ID: uuid.New(), SenderID: cmd.SenderID, RecipientID: cmd.RecipientID, Text: cmd.Text}, nil
}

func (f *fakeDeliverer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func (f *fakeDeliverer) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, cmd := range f.delivered {
		out = append(out, cmd.Text)
	}
	return out
}

type schedulerFixture struct {
	scheduler  *Scheduler
	repository repositories.ScheduledMessageRepository
	deliverer  *fakeDeliverer
}

func newSchedulerFixture(t *testing.T, maxAttempts int) schedulerFixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repository := repositories.NewScheduledMessageRepository(db, slog.Default())
	deliverer := &fakeDeliverer{}
	scheduler := NewScheduler(repository, deliverer, slog.Default(), maxAttempts, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = scheduler.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return schedulerFixture{scheduler: scheduler, repository: repository, deliverer: deliverer}
}

func scheduled(text string, due time.Time) domain.ScheduledMessage {
	return domain.ScheduledMessage{
		ID:          uuid.New(),
		SenderID:    "alice",
		RecipientID: "bob",
		Text:        text,
		DueAt:       due,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func Test_Scheduler_Fires_Due_Job_Exactly_Once(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 3)

	sm := scheduled("deferred hello", time.Now().UTC().Add(50*time.Millisecond))
	req.NoError(f.repository.Create(sm))
	f.scheduler.Admit(sm)

	req.Eventually(func() bool {
		fetched, err := f.repository.Get(sm.ID)
		return err == nil && fetched.Status == domain.StatusSent
	}, 2*time.Second, 10*time.Millisecond)

	req.Equal(1, f.deliverer.count())
	req.Equal([]string{"deferred hello"}, f.deliverer.texts())

	fetched, err := f.repository.Get(sm.ID)
	req.NoError(err)
	req.NotNil(fetched.MessageID, "fired job references the delivered message")
}

func Test_Scheduler_Cancelled_Job_Never_Fires(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 3)

	sm := scheduled("never sent", time.Now().UTC().Add(60*time.Millisecond))
	req.NoError(f.repository.Create(sm))
	f.scheduler.Admit(sm)

	// Cancel immediately; the heap entry is skipped lazily at due time
	req.NoError(f.repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusCancelled))

	time.Sleep(200 * time.Millisecond)
	req.Zero(f.deliverer.count())

	fetched, err := f.repository.Get(sm.ID)
	req.NoError(err)
	req.Equal(domain.StatusCancelled, fetched.Status)
}

func Test_Scheduler_Fires_In_Due_Time_Order(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 3)

	now := time.Now().UTC()
	second := scheduled("second", now.Add(120*time.Millisecond))
	first := scheduled("first", now.Add(60*time.Millisecond))

	// Admitted in reverse order of their due times
	req.NoError(f.repository.Create(second))
	f.scheduler.Admit(second)
	req.NoError(f.repository.Create(first))
	f.scheduler.Admit(first)

	req.Eventually(func() bool { return f.deliverer.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	req.Equal([]string{"first", "second"}, f.deliverer.texts())
}

func Test_Scheduler_Retries_Then_Succeeds(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 3)
	f.deliverer.failures = 2

	sm := scheduled("third time lucky", time.Now().UTC().Add(30*time.Millisecond))
	req.NoError(f.repository.Create(sm))
	f.scheduler.Admit(sm)

	req.Eventually(func() bool {
		fetched, err := f.repository.Get(sm.ID)
		return err == nil && fetched.Status == domain.StatusSent
	}, 2*time.Second, 10*time.Millisecond)
	req.Equal(1, f.deliverer.count())
}

func Test_Scheduler_Exhausted_Attempts_Mark_Failed(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 2)
	f.deliverer.failures = 10

	sm := scheduled("doomed", time.Now().UTC().Add(30*time.Millisecond))
	req.NoError(f.repository.Create(sm))
	f.scheduler.Admit(sm)

	req.Eventually(func() bool {
		fetched, err := f.repository.Get(sm.ID)
		return err == nil && fetched.Status == domain.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)
	req.Zero(f.deliverer.count())
}

func Test_Scheduler_Rehydrate_Readmits_Pending(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t, 3)

	// Simulates records left behind by a previous process: persisted
	// pending, never admitted to this loop
	overdue := scheduled("overdue after restart", time.Now().UTC().Add(-time.Minute))
	future := scheduled("still ahead", time.Now().UTC().Add(time.Hour))
	resolved := scheduled("already cancelled", time.Now().UTC().Add(-time.Minute))
	for _, sm := range []domain.ScheduledMessage{overdue, future, resolved} {
		req.NoError(f.repository.Create(sm))
	}
	req.NoError(f.repository.TransitionStatus(resolved.ID, domain.StatusPending, domain.StatusCancelled))

	req.NoError(f.scheduler.Rehydrate())

	req.Eventually(func() bool { return f.deliverer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	req.Equal([]string{"overdue after restart"}, f.deliverer.texts())

	fetched, err := f.repository.Get(future.ID)
	req.NoError(err)
	req.Equal(domain.StatusPending, fetched.Status)
}
