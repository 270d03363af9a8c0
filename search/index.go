// Package search maintains a full-text index over message text.
// The index is a best-effort projection fed by the delivery pipeline;
// the message store stays the source of truth.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"dm-lab/domain"
)

type IIndex interface {
	IndexMessage(key string, m domain.Message) error
	Search(ctx context.Context, userID, terms string, limit int) ([]string, error)
}

// Index wraps a bluge writer. Documents are keyed by the message's
// storage key so hits resolve straight back to the store.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

func (i *Index) IndexMessage(key string, m domain.Message) error {
	if m.Text == "" {
		return nil
	}
	doc := bluge.NewDocument(key).
		AddField(bluge.NewTextField("text", m.Text)).
		AddField(bluge.NewKeywordField("sender", m.SenderID)).
		AddField(bluge.NewKeywordField("recipient", m.RecipientID))
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the storage keys of messages matching the terms,
// restricted to conversations the user participates in.
func (i *Index) Search(ctx context.Context, userID, terms string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	participant := bluge.NewBooleanQuery().
		AddShould(bluge.NewTermQuery(userID).SetField("sender")).
		AddShould(bluge.NewTermQuery(userID).SetField("recipient")).
		SetMinShould(1)
	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("text")).
		AddMust(participant)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var keys []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				keys = append(keys, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return keys, nil
}
