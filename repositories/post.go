//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"dm-lab/domain"
	"dm-lab/errors"
)

type IPostRepository interface {
	Put(summary domain.PostSummary) error
	Get(postID string) (domain.PostSummary, error)
	AddShare(postID, userID string) error
	Shares(postID string) ([]string, error)
}

// PostRepository holds referenced-post summaries and the per-post share
// set. Post CRUD lives in another service; only the pieces a shared_post
// message needs are mirrored here.
//
// Share membership is one key per (post, user): "share:{post}:{user}".
// Re-adding an existing member rewrites the same key, which makes the
// "add to shares" effect naturally idempotent.
type PostRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPostRepository(db *badger.DB, log *slog.Logger) PostRepository {
	return PostRepository{db: db, log: log}
}

func (r PostRepository) Put(summary domain.PostSummary) error {
	bytes, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("post:"+summary.ID), bytes)
	})
}

func (r PostRepository) Get(postID string) (domain.PostSummary, error) {
	var summary domain.PostSummary
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("post:" + postID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &summary)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.PostSummary{}, errors.ErrNotFound
	}
	return summary, err
}

func (r PostRepository) AddShare(postID, userID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("share:"+postID+":"+userID), nil)
	})
}

func (r PostRepository) Shares(postID string) ([]string, error) {
	var users []string
	prefix := []byte("share:" + postID + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			users = append(users, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return users, err
}
