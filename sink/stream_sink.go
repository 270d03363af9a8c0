package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dm-lab/domain/event"
)

var (
	ErrSinkClosed = fmt.Errorf("stream sink closed")
	ErrSinkFull   = fmt.Errorf("stream sink buffer full")
)

// StreamSink bridges the registry's push side to a stream handler
// goroutine through a bounded buffer. Consume never blocks: a full
// buffer means the client is too slow and the event is dropped, which
// the poll fallback covers.
type StreamSink struct {
	mu     sync.Mutex
	closed bool
	events chan event.DomainEvent
	log    *slog.Logger
}

func NewStreamSink(log *slog.Logger, bufferSize int) *StreamSink {
	return &StreamSink{
		events: make(chan event.DomainEvent, bufferSize),
		log:    log,
	}
}

// Consume is called by the registry push path. It hands the event to
// the stream handler goroutine owning Events.
func (s *StreamSink) Consume(ctx context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("Backpressure: dropping event for slow stream consumer")
		return ErrSinkFull
	}
}

// Events is read by the stream handler; the channel closes when the
// sink does, letting the handler unwind on supersession.
func (s *StreamSink) Events() <-chan event.DomainEvent {
	return s.events
}

func (s *StreamSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
