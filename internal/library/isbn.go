package library

import "strings"

// NormalizeISBN strips the hyphens and spaces people type into ISBNs.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// ValidISBN reports whether isbn looks like an ISBN-13 (13 digits) or an
// ISBN-10 (9 digits followed by a digit or X). Check digits are not verified.
func ValidISBN(isbn string) bool {
	isbn = NormalizeISBN(isbn)

	switch len(isbn) {
	case 13:
		return isDigits(isbn)
	case 10:
		last := isbn[9]
		return isDigits(isbn[:9]) && ((last >= '0' && last <= '9') || last == 'X')
	default:
		return false
	}
}
