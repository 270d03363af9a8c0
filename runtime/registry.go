// Package runtime owns the concurrency-sensitive core: the live
// connection registry, the delivery pipeline, and the scheduler's
// dispatch loop. It orchestrates without containing transport concerns.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dm-lab/contract"
	"dm-lab/domain/event"
)

type liveEntry struct {
	sink   contract.EventSink
	handle uint64
}

// Registry maps a user id to at most one live outbound channel. All
// access goes through the mutex; registering over an existing entry
// supersedes it and closes the old sink so its stream handler unwinds.
type Registry struct {
	mu      sync.RWMutex
	nextID  uint64
	entries map[string]liveEntry
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{entries: make(map[string]liveEntry), log: log}
}

// Register installs the sink as the user's live endpoint and returns a
// handle identifying this registration. A prior entry for the same user
// is closed and replaced.
func (r *Registry) Register(userID string, sink contract.EventSink) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.entries[userID]; ok {
		r.log.Debug(fmt.Sprintf("Superseding live channel for %s", userID))
		prior.sink.Close()
	}
	r.nextID++
	r.entries[userID] = liveEntry{sink: sink, handle: r.nextID}
	return r.nextID
}

// Unregister removes the user's entry only if it still belongs to this
// handle. A stale unregister racing a newer registration is a no-op, so
// a superseded stream tearing down cannot evict its successor.
func (r *Registry) Unregister(userID string, handle uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok || entry.handle != handle {
		return
	}
	entry.sink.Close()
	delete(r.entries, userID)
}

// Push writes the event to the user's live channel if one exists.
// Absence or a full/broken channel yields delivered=false, never an
// error: the message is already durable and polling covers the gap.
func (r *Registry) Push(ctx context.Context, userID string, e event.DomainEvent) bool {
	r.mu.RLock()
	entry, ok := r.entries[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if err := entry.sink.Consume(ctx, e); err != nil {
		r.log.Warn("Live push failed, poll fallback will cover",
			"user_id", userID, "error", err)
		return false
	}
	return true
}

// Connected reports whether the user currently holds a live channel.
func (r *Registry) Connected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}
