//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"dm-lab/domain"
	"dm-lab/errors"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	GetByKey(key string) (domain.Message, error)
	Conversation(ownerID, peerID string) ([]domain.Message, error)
	RecentForUser(userID string) ([]domain.Message, error)
	MarkConversationSeen(ownerID, peerID string) (int, error)
}

// MessageRepository persists messages in BadgerDB.
//
// The primary key is "msg:{pairKey}:{timestamp_padded}:{uuid}":
//  1. 19-digit zero padding keeps a conversation chronologically sorted
//     under lexicographical prefix scans.
//  2. The UUID tail disambiguates two messages landing on the same nanosecond.
//
// A secondary key "inbox:{recipient}:{timestamp_padded}:{uuid}" holds the
// primary key bytes so a user's incoming messages can be scanned without
// knowing their conversation partners.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// MessageKey builds the primary storage key for a message.
func MessageKey(m domain.Message) string {
	return fmt.Sprintf("msg:%s:%019d:%s",
		domain.PairKey(m.SenderID, m.RecipientID),
		m.CreatedAt.UnixNano(),
		m.ID,
	)
}

func inboxKey(m domain.Message) string {
	return fmt.Sprintf("inbox:%s:%019d:%s", m.RecipientID, m.CreatedAt.UnixNano(), m.ID)
}

func (r MessageRepository) Store(message domain.Message) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	primary := []byte(MessageKey(message))
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primary, bytes); err != nil {
			return err
		}
		return txn.Set([]byte(inboxKey(message)), primary)
	})
}

func (r MessageRepository) GetByKey(key string) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &message)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrNotFound
	}
	return message, err
}

// Conversation returns both directions of a pair, newest first.
// Thanks to the padded timestamp in the key, a reverse prefix scan
// yields creation-time order without sorting in memory.
func (r MessageRepository) Conversation(ownerID, peerID string) ([]domain.Message, error) {
	prefix := fmt.Sprintf("msg:%s:", domain.PairKey(ownerID, peerID))
	return r.scanNewestFirst(prefix, nil)
}

// RecentForUser returns the user's incoming messages, newest first,
// resolved through the inbox index.
func (r MessageRepository) RecentForUser(userID string) ([]domain.Message, error) {
	prefix := fmt.Sprintf("inbox:%s:", userID)
	resolve := func(txn *badger.Txn, val []byte) ([]byte, error) {
		item, err := txn.Get(val)
		if err != nil {
			return nil, err
		}
		return item.ValueCopy(nil)
	}
	return r.scanNewestFirst(prefix, resolve)
}

// MarkConversationSeen flips the seen flag on every unseen message the
// peer sent to the owner and returns how many were flipped. The whole
// flip runs in a single transaction.
func (r MessageRepository) MarkConversationSeen(ownerID, peerID string) (int, error) {
	prefix := []byte(fmt.Sprintf("msg:%s:", domain.PairKey(ownerID, peerID)))
	flipped := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var message domain.Message
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			if message.RecipientID != ownerID || message.Seen {
				continue
			}
			message.Seen = true
			bytes, err := json.Marshal(message)
			if err != nil {
				return err
			}
			if err := txn.Set(item.KeyCopy(nil), bytes); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	return flipped, err
}

type resolveFn func(txn *badger.Txn, val []byte) ([]byte, error)

func (r MessageRepository) scanNewestFirst(prefixStr string, resolve resolveFn) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the youngest possible timestamp, then walk backwards.
		seekKey := append([]byte(prefixStr), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(messages) == *r.limitMessages {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limitMessages))
				break
			}
			item := it.Item()
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if resolve != nil {
				raw, err = resolve(txn, raw)
				if err != nil {
					return err
				}
			}
			var message domain.Message
			if err := json.Unmarshal(raw, &message); err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}
