package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dm-lab/errors"
)

type countingWorker struct {
	runs    *atomic.Int32
	outcome func(run int32) error
}

func (w countingWorker) Run(ctx context.Context) error {
	run := w.runs.Add(1)
	return w.outcome(run)
}

func TestSupervisor_Restarts_Crashed_Worker(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)

	runs := &atomic.Int32{}
	// Crashes twice, then finishes cleanly
	worker := countingWorker{runs: runs, outcome: func(run int32) error {
		if run < 3 {
			return errors.ErrWorkerPanic
		}
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.Add(worker)
	sup.Run(ctx)

	req.Eventually(func() bool { return runs.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	sup.Stop()
	req.EqualValues(3, runs.Load(), "a clean finish is never restarted")
}

func TestSupervisor_Recovers_Panic(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)

	runs := &atomic.Int32{}
	worker := countingWorker{runs: runs, outcome: func(run int32) error {
		if run == 1 {
			panic("worker exploded")
		}
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.Add(worker)
	sup.Run(ctx)

	req.Eventually(func() bool { return runs.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	sup.Stop()
}

func TestSupervisor_Stop_Cancels_Long_Running_Worker(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)

	started := make(chan struct{})
	blocking := workerFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	sup.Add(blocking)
	sup.Run(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		sup.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("supervisor did not stop")
	}
}

type workerFunc func(ctx context.Context) error

func (f workerFunc) Run(ctx context.Context) error { return f(ctx) }
