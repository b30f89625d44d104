// Package circulation implements the catalogue, member and loan workflows on
// top of the three record stores.
package circulation

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/recordstore"
)

// File names inside the data directory.
const (
	BooksFile   = "books.csv"
	MembersFile = "members.csv"
	LoansFile   = "loans.csv"
)

// DefaultLoanStartID is the first loan ID handed out.
const DefaultLoanStartID = 1

// Options configures a Service.
type Options struct {
	LoanDays    int
	LoanStartID int
	SkipInvalid bool
	Now         func() time.Time
}

// Service groups the book, member and loan stores of one data directory.
type Service struct {
	Books   *recordstore.Store[library.Book]
	Members *recordstore.Store[library.Member]
	Loans   *recordstore.Store[library.Loan]

	loanDays    int
	loanStartID int
	now         func() time.Time
}

// Open binds the three stores under dataDir, creating missing files.
func Open(dataDir string, opts Options) (*Service, error) {
	storeOpts := recordstore.Options{SkipInvalid: opts.SkipInvalid}

	books, err := recordstore.New(filepath.Join(dataDir, BooksFile), library.BookCodec, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open book store: %w", err)
	}
	members, err := recordstore.New(filepath.Join(dataDir, MembersFile), library.MemberCodec, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open member store: %w", err)
	}
	loans, err := recordstore.New(filepath.Join(dataDir, LoansFile), library.LoanCodec, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open loan store: %w", err)
	}

	return New(books, members, loans, opts), nil
}

// New creates a Service over existing stores. Zero option values fall back to defaults.
func New(
	books *recordstore.Store[library.Book],
	members *recordstore.Store[library.Member],
	loans *recordstore.Store[library.Loan],
	opts Options,
) *Service {
	if opts.LoanDays <= 0 {
		opts.LoanDays = library.DefaultLoanDays
	}
	if opts.LoanStartID <= 0 {
		opts.LoanStartID = DefaultLoanStartID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		Books:       books,
		Members:     members,
		Loans:       loans,
		loanDays:    opts.LoanDays,
		loanStartID: opts.LoanStartID,
		now:         opts.Now,
	}
}

// Today returns the current date as YYYY-MM-DD.
func (s *Service) Today() string {
	return library.FormatDate(s.now())
}
