// Package goodreads seeds the catalogue from a Goodreads library export.
package goodreads

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/csvutil"
	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/library"
)

// Options configures an import.
type Options struct {
	// Input is the path of the exported CSV file.
	Input string
	// DefaultCopies is used for rows without an owned copies count.
	DefaultCopies int
}

// Result counts what an import did.
type Result struct {
	Added   int
	Skipped int
}

// Import adds every book of the export that has a valid ISBN and is not
// catalogued yet. Unreadable rows are logged and skipped.
func Import(svc *circulation.Service, opts Options) (Result, error) {
	if opts.Input == "" {
		return Result{}, fmt.Errorf("input CSV file is required")
	}
	if opts.DefaultCopies < 1 {
		opts.DefaultCopies = 1
	}

	books, err := csvutil.ProcessCSV(opts.Input, parseBookRecord, csvutil.ProcessorOptions{
		FieldsPerRecord: -1,
		SkipInvalid:     true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to read Goodreads export: %w", err)
	}

	var result Result
	for i, book := range books {
		if book.Title == "" {
			slog.Warn("Skipping book without a title", "book_id", book.ID)
			result.Skipped++
			continue
		}

		isbn := library.NormalizeISBN(book.PreferredISBN())
		if !library.ValidISBN(isbn) {
			slog.Warn("Skipping book without a valid ISBN", "title", book.Title, "isbn", isbn)
			result.Skipped++
			continue
		}

		copies := book.OwnedCopies
		if copies < 1 {
			copies = opts.DefaultCopies
		}

		if _, err := svc.AddBook(isbn, book.Title, book.Author(), copies); err != nil {
			if errors.IsConflictError(err) {
				slog.Debug("Book already catalogued", "title", book.Title, "isbn", isbn)
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Added++
		logBookProgress(i+1, len(books))
	}

	slog.Info("Goodreads import finished", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

func logBookProgress(processed, total int) {
	if processed == 0 || processed%10 != 0 {
		return
	}

	percentage := "0%"
	if total > 0 {
		percentage = fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100)
	}

	slog.Info("Processing books",
		"processed", processed,
		"total", total,
		"percentage", percentage,
	)
}
