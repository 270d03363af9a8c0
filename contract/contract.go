//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"dm-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision purposes.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one live outbound channel. Consume must be bounded:
// a slow consumer drops rather than stalls.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
	Close()
}

// IRegistry answers "is this user reachable live" and pushes to them if so.
type IRegistry interface {
	Register(userID string, sink EventSink) uint64
	Unregister(userID string, handle uint64)
	Push(ctx context.Context, userID string, e event.DomainEvent) bool
}
