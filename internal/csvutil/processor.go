package csvutil

import (
	"encoding/csv"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lepinkainen/libris/internal/errors"
)

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// FieldsPerRecord sets the expected number of fields per record.
	// If 0, it's set to the number of fields in the first record.
	// If negative, records may have a variable number of fields.
	FieldsPerRecord int

	// SkipInvalid controls whether to skip invalid records or return an error.
	SkipInvalid bool

	// SkipHeader drops the first record before parsing.
	SkipHeader bool

	// Source names the input in errors and log lines, usually the file path.
	Source string
}

// ReadRecords reads CSV records from r and parses each one into type T.
// Blank lines are ignored. A record that fails to parse, either as CSV or
// in the parser, is returned as an *errors.DecodeError unless
// opts.SkipInvalid is set, in which case it is logged and skipped.
func ReadRecords[T any](r io.Reader, parser func([]string) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = opts.FieldsPerRecord

	if opts.SkipHeader {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	var items []T

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if stdErrors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			if opts.SkipInvalid {
				slog.Warn("Skipping unreadable record", "source", opts.Source, "line", line, "error", err)
				continue
			}
			return nil, errors.NewDecodeError(opts.Source, line, err)
		}

		line, _ := reader.FieldPos(0)

		item, err := parser(record)
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "source", opts.Source, "line", line, "error", err)
				continue
			}
			return nil, errors.NewDecodeError(opts.Source, line, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// ProcessCSV reads a CSV export file with a header row and parses each record into type T.
// The parser function converts a CSV record ([]string) into the target type.
// Returns a slice of parsed items or an error.
func ProcessCSV[T any](filename string, parser func([]string) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	// File existence check
	if fi, err := csvFile.Stat(); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("CSV file is empty or cannot be read")
	}

	opts.SkipHeader = true
	if opts.Source == "" {
		opts.Source = filename
	}

	return ReadRecords(csvFile, parser, opts)
}
