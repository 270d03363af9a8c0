//go:generate go run go.uber.org/mock/mockgen -source=scheduled.go -destination=../mocks/mock_scheduled_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"dm-lab/domain"
	"dm-lab/errors"
)

type IScheduledMessageRepository interface {
	Create(sm domain.ScheduledMessage) error
	Get(id uuid.UUID) (domain.ScheduledMessage, error)
	TransitionStatus(id uuid.UUID, from, to domain.ScheduledStatus) error
	AttachMessage(id, messageID uuid.UUID) error
	ListBySender(senderID string, status *domain.ScheduledStatus) ([]domain.ScheduledMessage, error)
	ListByStatus(status domain.ScheduledStatus) ([]domain.ScheduledMessage, error)
}

// ScheduledMessageRepository persists deferred sends.
//
// Primary key "sched:{uuid}" holds the record; index key
// "schedidx:{sender}:{due_padded}:{uuid}" holds the record id so a
// sender's jobs come back in due-time order via a forward prefix scan.
// Records are never deleted: terminal statuses stay as an audit trail.
type ScheduledMessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewScheduledMessageRepository(db *badger.DB, log *slog.Logger) ScheduledMessageRepository {
	return ScheduledMessageRepository{db: db, log: log}
}

func schedKey(id uuid.UUID) []byte {
	return []byte("sched:" + id.String())
}

func schedIndexKey(sm domain.ScheduledMessage) []byte {
	return []byte(fmt.Sprintf("schedidx:%s:%019d:%s", sm.SenderID, sm.DueAt.UnixNano(), sm.ID))
}

func (r ScheduledMessageRepository) Create(sm domain.ScheduledMessage) error {
	bytes, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(schedKey(sm.ID), bytes); err != nil {
			return err
		}
		return txn.Set(schedIndexKey(sm), []byte(sm.ID.String()))
	})
}

func (r ScheduledMessageRepository) Get(id uuid.UUID) (domain.ScheduledMessage, error) {
	var sm domain.ScheduledMessage
	err := r.db.View(func(txn *badger.Txn) error {
		return readScheduled(txn, id, &sm)
	})
	if err == badger.ErrKeyNotFound {
		return domain.ScheduledMessage{}, errors.ErrNotFound
	}
	return sm, err
}

// TransitionStatus performs the atomic compare-and-set the fire/cancel
// race depends on: the read, the status check, and the write share one
// serializable transaction. A lost race surfaces as ErrAlreadyResolved,
// never as a double transition.
func (r ScheduledMessageRepository) TransitionStatus(id uuid.UUID, from, to domain.ScheduledStatus) error {
	for {
		err := r.db.Update(func(txn *badger.Txn) error {
			var sm domain.ScheduledMessage
			if err := readScheduled(txn, id, &sm); err != nil {
				return err
			}
			if sm.Status != from {
				return errors.ErrAlreadyResolved
			}
			sm.Status = to
			bytes, err := json.Marshal(sm)
			if err != nil {
				return err
			}
			return txn.Set(schedKey(id), bytes)
		})
		switch err {
		case badger.ErrConflict:
			// A concurrent transition touched this record first; re-run so
			// the fresh status decides between success and AlreadyResolved.
			continue
		case badger.ErrKeyNotFound:
			return errors.ErrNotFound
		default:
			return err
		}
	}
}

// AttachMessage records the delivered message id against a fired job.
func (r ScheduledMessageRepository) AttachMessage(id, messageID uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var sm domain.ScheduledMessage
		if err := readScheduled(txn, id, &sm); err != nil {
			return err
		}
		sm.MessageID = &messageID
		bytes, err := json.Marshal(sm)
		if err != nil {
			return err
		}
		return txn.Set(schedKey(id), bytes)
	})
	if err == badger.ErrKeyNotFound {
		return errors.ErrNotFound
	}
	return err
}

// ListBySender returns the sender's jobs in due-time ascending order,
// optionally filtered by status.
func (r ScheduledMessageRepository) ListBySender(senderID string, status *domain.ScheduledStatus) ([]domain.ScheduledMessage, error) {
	var jobs []domain.ScheduledMessage
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("schedidx:" + senderID + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := uuid.Parse(string(raw))
			if err != nil {
				return err
			}
			var sm domain.ScheduledMessage
			if err := readScheduled(txn, id, &sm); err != nil {
				return err
			}
			if status != nil && sm.Status != *status {
				continue
			}
			jobs = append(jobs, sm)
		}
		return nil
	})
	return jobs, err
}

// ListByStatus scans all records; used at startup to rehydrate the
// dispatch loop with persisted pending jobs.
func (r ScheduledMessageRepository) ListByStatus(status domain.ScheduledStatus) ([]domain.ScheduledMessage, error) {
	var jobs []domain.ScheduledMessage
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("sched:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sm domain.ScheduledMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sm)
			})
			if err != nil {
				return err
			}
			if sm.Status == status {
				jobs = append(jobs, sm)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].DueAt.Before(jobs[j].DueAt) })
	return jobs, nil
}

func readScheduled(txn *badger.Txn, id uuid.UUID, sm *domain.ScheduledMessage) error {
	item, err := txn.Get(schedKey(id))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, sm)
	})
}
