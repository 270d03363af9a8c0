package runtime

import (
	"container/heap"
	"context"
	goerrors "errors"
	"log/slog"
	"sync"
	"time"

	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
)

// scheduledJob is a heap entry. Ties on due time break on admission
// sequence so pops stay deterministic.
type scheduledJob struct {
	sm  domain.ScheduledMessage
	seq uint64
}

type jobHeap []scheduledJob

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].sm.DueAt.Equal(h[j].sm.DueAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].sm.DueAt.Before(h[j].sm.DueAt)
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x any)   { *h = append(*h, x.(scheduledJob)) }
func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	job := old[n-1]
	*h = old[:n-1]
	return job
}

// Scheduler holds pending deferred sends in a min-heap keyed by due
// time and fires each at most once from a single dispatch loop. The
// authoritative state is the persisted status: the heap is only a wake
// schedule, so a job cancelled after admission is lazily skipped when
// its compare-and-set loses.
type Scheduler struct {
	mu      sync.Mutex
	jobs    jobHeap
	nextSeq uint64
	wake    chan struct{}

	repository repositories.IScheduledMessageRepository
	pipeline   Deliverer
	log        *slog.Logger

	maxAttempts  int
	retryBackoff time.Duration
}

func NewScheduler(repository repositories.IScheduledMessageRepository, pipeline Deliverer,
	log *slog.Logger, maxAttempts int, retryBackoff time.Duration) *Scheduler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Scheduler{
		wake:         make(chan struct{}, 1),
		repository:   repository,
		pipeline:     pipeline,
		log:          log,
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
	}
}

// Admit puts a job on the wake schedule and nudges the dispatch loop so
// it can re-evaluate its next deadline. O(log n), callable from any
// request-handling goroutine.
func (s *Scheduler) Admit(sm domain.ScheduledMessage) {
	s.mu.Lock()
	s.nextSeq++
	heap.Push(&s.jobs, scheduledJob{sm: sm, seq: s.nextSeq})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Rehydrate re-admits every persisted pending job. Run at startup: the
// in-memory schedule dies with the process while the records stay
// pending forever otherwise. Overdue jobs fire on the loop's first
// pass, and double admission is harmless because only one CAS can win.
func (s *Scheduler) Rehydrate() error {
	pending, err := s.repository.ListByStatus(domain.StatusPending)
	if err != nil {
		return err
	}
	for _, sm := range pending {
		s.Admit(sm)
	}
	if len(pending) > 0 {
		s.log.Info("Rehydrated pending scheduled messages", "count", len(pending))
	}
	return nil
}

// Run is the dispatch loop: sleep until the earliest due time or an
// admission, pop everything due, fire it. One long-lived goroutine,
// supervised like any other worker.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		wait, idle := s.untilNextDue()
		if !idle && wait <= 0 {
			for _, job := range s.popDue() {
				s.fire(ctx, job.sm)
			}
			continue
		}

		var timer *time.Timer
		var due <-chan time.Time
		if !idle {
			timer = time.NewTimer(wait)
			due = timer.C
		}
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.log.Debug("Stopping scheduler dispatch loop")
			return ctx.Err()
		case <-s.wake:
			if timer != nil {
				timer.Stop()
			}
		case <-due:
		}
	}
}

func (s *Scheduler) untilNextDue() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return 0, true
	}
	return time.Until(s.jobs[0].sm.DueAt), false
}

func (s *Scheduler) popDue() []scheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []scheduledJob
	now := time.Now()
	for len(s.jobs) > 0 && !s.jobs[0].sm.DueAt.After(now) {
		due = append(due, heap.Pop(&s.jobs).(scheduledJob))
	}
	return due
}

// Pending reports the number of jobs currently on the wake schedule.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// fire resolves one due job. The compare-and-set to sent is the
// authoritative transition: losing it means a cancel (or a concurrent
// duplicate admission) won, which is a benign outcome, not an error.
// A delivery failure rolls the status back to pending before the next
// attempt; after the last attempt the job lands on failed, never in
// silence.
func (s *Scheduler) fire(ctx context.Context, sm domain.ScheduledMessage) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryBackoff):
			}
		}

		err := s.repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusSent)
		if goerrors.Is(err, errors.ErrAlreadyResolved) {
			s.log.Debug("Scheduled message resolved before firing", "scheduled_id", sm.ID)
			return
		}
		if err != nil {
			s.log.Error("Fire transition failed", "scheduled_id", sm.ID, "error", err)
			return
		}

		message, err := s.pipeline.Deliver(ctx, domain.SendMessageCommand{
			SenderID:    sm.SenderID,
			RecipientID: sm.RecipientID,
			Text:        sm.Text,
		})
		if err == nil {
			if err := s.repository.AttachMessage(sm.ID, message.ID); err != nil {
				s.log.Warn("Storing fired message reference failed",
					"scheduled_id", sm.ID, "error", err)
			}
			s.log.Info("Scheduled message fired",
				"scheduled_id", sm.ID, "message_id", message.ID)
			return
		}

		s.log.Warn("Scheduled delivery failed, rolling back to pending",
			"scheduled_id", sm.ID, "attempt", attempt, "error", err)
		if rbErr := s.repository.TransitionStatus(sm.ID, domain.StatusSent, domain.StatusPending); rbErr != nil {
			s.log.Error("Rollback to pending failed", "scheduled_id", sm.ID, "error", rbErr)
			return
		}
	}

	err := s.repository.TransitionStatus(sm.ID, domain.StatusPending, domain.StatusFailed)
	if err != nil && !goerrors.Is(err, errors.ErrAlreadyResolved) {
		s.log.Error("Marking scheduled message failed did not stick",
			"scheduled_id", sm.ID, "error", err)
		return
	}
	s.log.Error("Scheduled message exhausted delivery attempts",
		"scheduled_id", sm.ID, "attempts", s.maxAttempts)
}
