package goodreads

// Book is the part of a Goodreads library export row that the catalogue uses.
type Book struct {
	ID          int      `json:"Book Id"`
	Title       string   `json:"Title"`
	Authors     []string `json:"Authors"`
	ISBN        string   `json:"ISBN"`
	ISBN13      string   `json:"ISBN13"`
	OwnedCopies int      `json:"Owned Copies"`
}

// PreferredISBN returns the ISBN-13 when present, otherwise the ISBN-10.
func (b Book) PreferredISBN() string {
	if b.ISBN13 != "" {
		return b.ISBN13
	}
	return b.ISBN
}

// Author returns the primary author.
func (b Book) Author() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}
