package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"dm-lab/domain"
)

func main() {
	dbPath := flag.String("db", "/tmp/dm-lab/badger", "Path to badger DB")
	// Par défaut on cherche "msg:" pour éviter de percuter les index inbox:
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, sched:, post:, share:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "From", "To", "Status", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Les index secondaires pointent vers les clés primaires,
			// inutile de les afficher
			if strings.HasPrefix(rawKey, "inbox:") || strings.HasPrefix(rawKey, "schedidx:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(toRow(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func toRow(key string, value []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var m domain.Message
		if err := json.Unmarshal(value, &m); err != nil {
			return errorRow(key, err)
		}
		return []string{key, string(m.Kind), m.CreatedAt.Format("15:04:05"),
			m.SenderID, m.RecipientID, seenLabel(m.Seen), truncate(m.Text, 40)}
	case strings.HasPrefix(key, "sched:"):
		var sm domain.ScheduledMessage
		if err := json.Unmarshal(value, &sm); err != nil {
			return errorRow(key, err)
		}
		return []string{key, "SCHEDULED", sm.DueAt.Format("15:04:05"),
			sm.SenderID, sm.RecipientID, string(sm.Status), truncate(sm.Text, 40)}
	case strings.HasPrefix(key, "post:"):
		var p domain.PostSummary
		if err := json.Unmarshal(value, &p); err != nil {
			return errorRow(key, err)
		}
		return []string{key, "POST", "", p.AuthorID, "", "", truncate(p.Caption, 40)}
	case strings.HasPrefix(key, "share:"):
		return []string{key, "SHARE", "", "", "", "", ""}
	default:
		return []string{key, "?", "", "", "", "", fmt.Sprintf("%d bytes", len(value))}
	}
}

func errorRow(key string, err error) []string {
	return []string{key, "ERR", "", "", "", "", err.Error()}
}

func seenLabel(seen bool) string {
	if seen {
		return "seen"
	}
	return "unseen"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
