package circulation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/library"
)

// AddBook adds a new title with all its copies available. A copy count
// below one is treated as one.
func (s *Service) AddBook(isbn, title, author string, copies int) (library.Book, error) {
	isbn = library.NormalizeISBN(strings.TrimSpace(isbn))
	if !library.ValidISBN(isbn) {
		return library.Book{}, fmt.Errorf("invalid ISBN %q", isbn)
	}
	if strings.TrimSpace(title) == "" {
		return library.Book{}, fmt.Errorf("title is required")
	}

	_, exists, err := s.Books.Find(library.BookISBN, isbn)
	if err != nil {
		return library.Book{}, fmt.Errorf("failed to look up book: %w", err)
	}
	if exists {
		return library.Book{}, errors.NewConflictError("book with ISBN", isbn)
	}

	if copies < 1 {
		copies = 1
	}

	book := library.Book{
		ISBN:            isbn,
		Title:           strings.TrimSpace(title),
		Author:          strings.TrimSpace(author),
		CopiesTotal:     copies,
		CopiesAvailable: copies,
	}
	if err := s.Books.Append(book); err != nil {
		return library.Book{}, fmt.Errorf("failed to save book: %w", err)
	}

	slog.Info("Added book", "isbn", book.ISBN, "title", book.Title, "copies", copies)
	return book, nil
}

// Book returns the book with the given ISBN.
func (s *Service) Book(isbn string) (library.Book, error) {
	isbn = library.NormalizeISBN(strings.TrimSpace(isbn))
	book, found, err := s.Books.Find(library.BookISBN, isbn)
	if err != nil {
		return library.Book{}, fmt.Errorf("failed to look up book: %w", err)
	}
	if !found {
		return library.Book{}, errors.NewNotFoundError("book with ISBN", isbn)
	}
	return book, nil
}

// Catalogue returns every book in file order.
func (s *Service) Catalogue() ([]library.Book, error) {
	return s.Books.ReadAll()
}

// Search returns books whose title or author contains term, ignoring case.
// An empty term matches every book.
func (s *Service) Search(term string) ([]library.Book, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.Books.Select(func(b library.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), term) ||
			strings.Contains(strings.ToLower(b.Author), term)
	})
}

// Member returns the member with the given ID.
func (s *Service) Member(memberID string) (library.Member, error) {
	member, found, err := s.Members.Find(library.MemberID, memberID)
	if err != nil {
		return library.Member{}, fmt.Errorf("failed to look up member: %w", err)
	}
	if !found {
		return library.Member{}, errors.NewNotFoundError("member with ID", memberID)
	}
	return member, nil
}

// ListMembers returns every registered member, including the librarian account.
func (s *Service) ListMembers() ([]library.Member, error) {
	return s.Members.ReadAll()
}
