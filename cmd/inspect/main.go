// Command inspect dumps portal rows from a Badger directory, grouped by
// key prefix. Handy when debugging a live data directory without booting
// the services.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const maxValueWidth = 96

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// "idx:" and "seq:" rows are bookkeeping, not entities, so the
	// default prefix skips them.
	prefix := flag.String("prefix", "user:", "Key prefix to scan (user:, student:, payment:, chat:, news:, notification:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Bold.Printf("Scanning %s for prefix %q\n\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Bytes", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, "idx:") || strings.HasPrefix(key, "seq:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, fmt.Sprintf("%d", len(v)), compactJSON(v)})
				rows++
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
	if rows == 0 {
		color.Yellow.Println("no rows under that prefix")
	} else {
		color.Green.Printf("\n%d rows\n", rows)
	}
}

// compactJSON renders a stored value on one line, truncated for the
// table. Non-JSON values (pair keys hold a chat id) print as-is.
func compactJSON(v []byte) string {
	var decoded any
	display := string(v)
	if err := json.Unmarshal(v, &decoded); err == nil {
		if compact, err := json.Marshal(decoded); err == nil {
			display = string(compact)
		}
	}
	if len(display) > maxValueWidth {
		display = display[:maxValueWidth] + "..."
	}
	return display
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
