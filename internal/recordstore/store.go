// Package recordstore persists typed records as rows of a CSV file.
//
// A Store owns no in-memory state: every read parses the whole file and
// every mutation other than Append rewrites it.
//
// Stores are not safe for concurrent use, neither across goroutines nor across
// processes. Update, Delete and WriteAll read and then rewrite the file, so two
// writers can lose each other's changes.
package recordstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/libris/internal/csvutil"
	"github.com/natefinch/atomic"
)

// Codec converts between a record and its row of text fields. Fields may
// hold commas, quotes and newlines, but a CRLF inside a field reads back
// as a bare LF.
type Codec[T any] struct {
	Encode func(T) []string
	Decode func([]string) (T, error)
}

// KeyFunc extracts the lookup key of a record, e.g. a book's ISBN.
type KeyFunc[T any] func(T) string

// Options configures how a Store treats malformed rows.
type Options struct {
	// SkipInvalid makes reads drop rows that cannot be decoded, logging a
	// warning for each, instead of failing with a DecodeError. Update and
	// Delete always read strictly so a rewrite never drops such rows.
	SkipInvalid bool
}

// Store is a file-backed collection of records of type T.
type Store[T any] struct {
	path  string
	codec Codec[T]
	opts  Options
}

// New binds a Store to path, creating the file (and its directory) if needed.
func New[T any](path string, codec Codec[T], opts Options) (*Store[T], error) {
	if codec.Encode == nil || codec.Decode == nil {
		return nil, fmt.Errorf("record store %s: codec needs both Encode and Decode", path)
	}

	s := &Store[T]{path: path, codec: codec, opts: opts}
	if err := s.EnsureExists(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// EnsureExists creates the parent directory and an empty backing file if
// the file does not exist yet. Calling it again is a no-op.
func (s *Store[T]) EnsureExists() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	return f.Close()
}

// ReadAll returns every record in file order. A missing or empty file
// yields no records and no error.
func (s *Store[T]) ReadAll() ([]T, error) {
	return s.readAll(s.opts.SkipInvalid)
}

func (s *Store[T]) readAll(skipInvalid bool) ([]T, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	return csvutil.ReadRecords(f, s.codec.Decode, csvutil.ProcessorOptions{
		FieldsPerRecord: -1,
		SkipInvalid:     skipInvalid,
		Source:          s.path,
	})
}

// WriteAll replaces the file contents with records, in the given order.
// The new contents are written to a temporary file and renamed into place.
func (s *Store[T]) WriteAll(records []T) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, record := range records {
		if err := w.Write(s.codec.Encode(record)); err != nil {
			return fmt.Errorf("failed to encode record for %s: %w", s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode records for %s: %w", s.path, err)
	}

	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	slog.Debug("Rewrote record file", "path", s.path, "records", len(records))
	return nil
}

// Append adds one record at the end of the file without parsing it.
// A missing final newline, as left by hand edits, is added first.
// Uniqueness of keys is the caller's responsibility.
func (s *Store[T]) Append(record T) (err error) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", s.path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", s.path, closeErr)
		}
	}()

	if err := terminateLastRow(f); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(s.codec.Encode(record)); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return nil
}

func terminateLastRow(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// Find returns the first record whose key equals value.
func (s *Store[T]) Find(key KeyFunc[T], value string) (T, bool, error) {
	var zero T

	records, err := s.ReadAll()
	if err != nil {
		return zero, false, err
	}

	for _, record := range records {
		if key(record) == value {
			return record, true, nil
		}
	}
	return zero, false, nil
}

// Select returns every record matching match, in file order.
func (s *Store[T]) Select(match func(T) bool) ([]T, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	var selected []T
	for _, record := range records {
		if match(record) {
			selected = append(selected, record)
		}
	}
	return selected, nil
}

// Update replaces the first record sharing record's key and rewrites the file.
// If no record matches, the file is left untouched and false is returned.
// A malformed row fails the update with a DecodeError even when SkipInvalid is set.
func (s *Store[T]) Update(record T, key KeyFunc[T]) (bool, error) {
	records, err := s.readAll(false)
	if err != nil {
		return false, err
	}

	id := key(record)
	for i := range records {
		if key(records[i]) == id {
			records[i] = record
			return true, s.WriteAll(records)
		}
	}
	return false, nil
}

// Delete removes every record whose key equals value and rewrites the file.
// It returns how many records were removed; when none were, the file is
// left untouched. Like Update, it refuses to rewrite a file with malformed rows.
func (s *Store[T]) Delete(key KeyFunc[T], value string) (int, error) {
	records, err := s.readAll(false)
	if err != nil {
		return 0, err
	}

	kept := records[:0]
	for _, record := range records {
		if key(record) != value {
			kept = append(kept, record)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.WriteAll(kept)
}
