// Package export writes snapshots of the library data files to SQLite
// (for Datasette), JSON or YAML.
package export

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/datastore"
	"github.com/lepinkainen/libris/internal/fileutil"
	"github.com/lepinkainen/libris/internal/library"
)

// Supported formats.
const (
	FormatSQLite = "sqlite"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

const (
	booksSchema = `CREATE TABLE IF NOT EXISTS books (
		isbn TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT,
		copies_total INTEGER NOT NULL,
		copies_available INTEGER NOT NULL
	)`

	membersSchema = `CREATE TABLE IF NOT EXISTS members (
		member_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		join_date TEXT
	)`

	loansSchema = `CREATE TABLE IF NOT EXISTS loans (
		loan_id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		isbn TEXT NOT NULL,
		issue_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		return_date TEXT
	)`
)

// Snapshot is the full content of one data directory. Password hashes are
// never exported.
type Snapshot struct {
	Books   []library.Book   `json:"books" yaml:"books"`
	Members []library.Member `json:"members" yaml:"members"`
	Loans   []library.Loan   `json:"loans" yaml:"loans"`
}

// Take reads all three stores of svc.
func Take(svc *circulation.Service) (Snapshot, error) {
	books, err := svc.Books.ReadAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read books: %w", err)
	}
	members, err := svc.Members.ReadAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read members: %w", err)
	}
	loans, err := svc.Loans.ReadAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read loans: %w", err)
	}

	for i := range members {
		members[i].PasswordHash = ""
	}

	return Snapshot{Books: books, Members: members, Loans: loans}, nil
}

// Write exports snap in format to path. File formats keep an existing file
// unless overwrite is set; SQLite tables are always replaced. It reports
// whether anything was written.
func Write(snap Snapshot, format, path string, overwrite bool) (bool, error) {
	switch strings.ToLower(format) {
	case FormatSQLite:
		store := datastore.NewSQLiteStore(path)
		if err := store.Connect(); err != nil {
			return false, err
		}
		defer func() { _ = store.Close() }()

		if err := ToStore(store, snap); err != nil {
			return false, err
		}
		return true, nil
	case FormatJSON:
		return fileutil.WriteJSONFile(snap, path, overwrite)
	case FormatYAML:
		return fileutil.WriteYAMLFile(snap, path, overwrite)
	default:
		return false, fmt.Errorf("unsupported export format %q", format)
	}
}

// ToStore replaces the books, members and loans tables of store with snap.
func ToStore(store datastore.Store, snap Snapshot) error {
	tables := []struct {
		name    string
		schema  string
		records []map[string]any
	}{
		{"books", booksSchema, bookRecords(snap.Books)},
		{"members", membersSchema, memberRecords(snap.Members)},
		{"loans", loansSchema, loanRecords(snap.Loans)},
	}

	for _, table := range tables {
		if err := store.CreateTable(table.schema); err != nil {
			return err
		}
		if err := store.ClearTable(table.name); err != nil {
			return err
		}
		if err := store.BatchInsert(table.name, table.records); err != nil {
			return fmt.Errorf("failed to export %s: %w", table.name, err)
		}
		slog.Debug("Exported table", "table", table.name, "rows", len(table.records))
	}
	return nil
}

func bookRecords(books []library.Book) []map[string]any {
	records := make([]map[string]any, 0, len(books))
	for _, b := range dedupe(books, library.BookISBN) {
		records = append(records, map[string]any{
			"isbn":             b.ISBN,
			"title":            b.Title,
			"author":           b.Author,
			"copies_total":     b.CopiesTotal,
			"copies_available": b.CopiesAvailable,
		})
	}
	return records
}

func memberRecords(members []library.Member) []map[string]any {
	records := make([]map[string]any, 0, len(members))
	for _, m := range dedupe(members, library.MemberID) {
		records = append(records, map[string]any{
			"member_id": m.MemberID,
			"name":      m.Name,
			"email":     m.Email,
			"join_date": m.JoinDate,
		})
	}
	return records
}

func loanRecords(loans []library.Loan) []map[string]any {
	records := make([]map[string]any, 0, len(loans))
	for _, l := range dedupe(loans, library.LoanID) {
		var returned any
		if l.ReturnDate != "" {
			returned = l.ReturnDate
		}
		records = append(records, map[string]any{
			"loan_id":     l.LoanID,
			"member_id":   l.MemberID,
			"isbn":        l.ISBN,
			"issue_date":  l.IssueDate,
			"due_date":    l.DueDate,
			"return_date": returned,
		})
	}
	return records
}

// dedupe keeps the first record per key, matching the store's first-match lookup.
func dedupe[T any](records []T, key func(T) string) []T {
	seen := make(map[string]bool, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := key(r)
		if seen[k] {
			slog.Warn("Skipping duplicate record in export", "key", k)
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
