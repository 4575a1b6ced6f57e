package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"chathub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Standalone read-only inspector for the message store. Safe to run while
// the server holds the Badger lock.
func main() {
	dbPath := flag.String("db", "data/badger", "Path to badger DB")
	room := flag.String("room", "", "Only show messages from this room")
	limit := flag.Int("limit", 0, "Stop after N messages (0 = all)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("Message store at %s\n\n", *dbPath)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Room", "Time", "Author", "Kind", "Body", "File"})
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

	shown := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("msg:")
		if *room != "" {
			prefix = []byte("msg:" + *room + ":")
		}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// The sequence counter shares the msg: prefix.
			if key == "msg:seq" {
				continue
			}
			if *limit > 0 && shown >= *limit {
				break
			}

			err := item.Value(func(v []byte) error {
				var record repositories.MessageRecord
				if err := json.Unmarshal(v, &record); err != nil {
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				msg := record.ToDomain()
				table.Append([]string{
					fmt.Sprintf("%d", msg.ID),
					msg.Room,
					msg.At.Format("15:04:05"),
					msg.Author,
					string(msg.Kind),
					truncate(msg.Body, 60),
					msg.FileRef,
				})
				shown++
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
	fmt.Printf("\n%d message(s)\n", shown)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// Corruption after a crash needs one writable open to truncate.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)
			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
