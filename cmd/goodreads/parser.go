package goodreads

import (
	"fmt"
	"strconv"
	"strings"
)

// Column positions in a Goodreads library export.
const (
	colBookID      = 0
	colTitle       = 1
	colAuthor      = 2
	colISBN        = 5
	colISBN13      = 6
	colOwnedCopies = 23

	minColumns = 24
)

func parseBookRecord(record []string) (Book, error) {
	if len(record) < minColumns {
		return Book{}, fmt.Errorf("record has %d columns, want at least %d", len(record), minColumns)
	}

	bookID, err := strconv.Atoi(record[colBookID])
	if err != nil {
		return Book{}, fmt.Errorf("invalid book ID: %w", err)
	}

	return Book{
		ID:          bookID,
		Title:       strings.TrimSpace(record[colTitle]),
		Authors:     splitString(record[colAuthor]),
		ISBN:        sanitizeISBNValue(record[colISBN]),
		ISBN13:      sanitizeISBNValue(record[colISBN13]),
		OwnedCopies: parseIntField(record[colOwnedCopies]),
	}, nil
}

func parseIntField(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

// sanitizeISBNValue strips the ="..." wrapper Goodreads puts around ISBNs.
func sanitizeISBNValue(value string) string {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSuffix(trimmed, "\"")
	trimmed = strings.TrimPrefix(trimmed, "=\"")
	return trimmed
}

// Helper function to split comma-separated strings
func splitString(str string) []string {
	if str == "" {
		return nil
	}
	var splitStrings = strings.Split(str, ",")
	for i, s := range splitStrings {
		splitStrings[i] = strings.TrimSpace(s)
	}
	return splitStrings
}
