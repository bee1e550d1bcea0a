package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/booruapp/tagsearch-server/internal/domain"
)

func main() {
	sample := flag.Int("sample", 10, "Number of tags and dialogs to print")
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/TagSearch/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	err = db.View(func(txn *badger.Txn) error {
		printPreferences(txn)
		printTags(txn, *sample)
		printDialogs(txn, *sample)
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}
}

func printPreferences(txn *badger.Txn) {
	item, err := txn.Get([]byte("preferences"))
	if err != nil {
		fmt.Println("Preferences: (defaults, nothing saved)")
		fmt.Println()
		return
	}

	var prefs domain.Preferences
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &prefs) }); err != nil {
		log.Printf("Error reading preferences: %v", err)
		return
	}

	fmt.Println("Preferences:")
	fmt.Printf("  Language:  %s\n", prefs.Language)
	fmt.Printf("  Save path: %s\n", prefs.SavePath)
	fmt.Printf("  Updated:   %s\n", prefs.UpdatedAt.Format(time.RFC3339))
	fmt.Println()
}

func printTags(txn *badger.Txn, sample int) {
	prefix := []byte("tag:")
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	bySource := map[domain.TagSource]int{}
	total := 0

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := string(item.Key())

		var tag domain.Tag
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &tag) }); err != nil {
			log.Printf("Error reading tag %s: %v", key, err)
			continue
		}

		total++
		bySource[tag.Source]++
		if total <= sample {
			fmt.Printf("Tag: %-40s source=%s\n", tag.Name, tag.Source)
		}
	}
	if total > sample {
		fmt.Printf("... and %d more tags\n", total-sample)
	}

	fmt.Println()
	fmt.Println("=== Tags ===")
	fmt.Printf("Total tags: %d\n", total)
	for source, count := range bySource {
		fmt.Printf("  %s: %d\n", source, count)
	}
	fmt.Println()
}

func printDialogs(txn *badger.Txn, sample int) {
	prefix := []byte("dialog:")
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	total := 0
	now := time.Now()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()

		var session domain.DialogSession
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &session) }); err != nil {
			log.Printf("Error reading dialog %s: %v", item.Key(), err)
			continue
		}

		total++
		if total > sample {
			continue
		}

		fmt.Printf("Dialog: %s\n", session.ID)
		fmt.Printf("  Source:  %q\n", session.Source)
		fmt.Printf("  Preview: %q\n", session.Form.Generate(""))
		if exp := item.ExpiresAt(); exp > 0 {
			fmt.Printf("  Expires in: %s\n", time.Unix(int64(exp), 0).Sub(now).Round(time.Second))
		}
	}

	fmt.Println()
	fmt.Println("=== Dialogs ===")
	fmt.Printf("Open dialogs: %d\n", total)
}
