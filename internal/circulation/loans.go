package circulation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/library"
)

// Loan statuses shown in loan histories.
const (
	StatusActive   = "Active"
	StatusReturned = "Returned"
)

// OverdueLoan is an open loan past its due date, joined with the names
// needed to chase it up.
type OverdueLoan struct {
	Loan        library.Loan
	BookTitle   string
	MemberName  string
	MemberEmail string
	DaysOverdue int
}

// LoanView is one line of a member's loan history.
type LoanView struct {
	Loan      library.Loan
	BookTitle string
	Status    string
}

// IssueBook lends one copy of isbn to memberID.
func (s *Service) IssueBook(isbn, memberID string) (library.Loan, error) {
	book, err := s.availableBook(isbn)
	if err != nil {
		return library.Loan{}, err
	}

	memberID = strings.TrimSpace(memberID)
	if _, err := s.Member(memberID); err != nil {
		return library.Loan{}, err
	}

	loans, err := s.Loans.ReadAll()
	if err != nil {
		return library.Loan{}, fmt.Errorf("failed to read loans: %w", err)
	}

	return s.lend(book, memberID, loans)
}

// Borrow lends one copy of isbn to the member logged in on session. A member
// may hold only one open loan per title.
func (s *Service) Borrow(session *auth.Session, isbn string) (library.Loan, library.Book, error) {
	if !session.HasRole(auth.RoleMember) {
		return library.Loan{}, library.Book{}, errors.NewAuthError("you must be logged in to borrow books")
	}

	book, err := s.availableBook(isbn)
	if err != nil {
		return library.Loan{}, library.Book{}, err
	}

	loans, err := s.Loans.ReadAll()
	if err != nil {
		return library.Loan{}, library.Book{}, fmt.Errorf("failed to read loans: %w", err)
	}
	for _, loan := range loans {
		if loan.MemberID == session.UserID && loan.ISBN == book.ISBN && loan.IsOpen() {
			return library.Loan{}, library.Book{}, &errors.ConflictError{
				Kind:    "loan",
				Key:     loan.LoanID,
				Message: "you already have this book on loan",
			}
		}
	}

	loan, err := s.lend(book, session.UserID, loans)
	if err != nil {
		return library.Loan{}, library.Book{}, err
	}
	return loan, book, nil
}

// ReturnBook closes the first open loan of isbn held by memberID and puts
// the copy back on the shelf.
func (s *Service) ReturnBook(isbn, memberID string) (library.Loan, error) {
	isbn = library.NormalizeISBN(strings.TrimSpace(isbn))
	memberID = strings.TrimSpace(memberID)

	loans, err := s.Loans.ReadAll()
	if err != nil {
		return library.Loan{}, fmt.Errorf("failed to read loans: %w", err)
	}

	var loan library.Loan
	found := false
	for _, l := range loans {
		if l.ISBN == isbn && l.MemberID == memberID && l.IsOpen() {
			loan = l
			found = true
			break
		}
	}
	if !found {
		return library.Loan{}, errors.NewNotFoundError("active loan for ISBN", fmt.Sprintf("%s and member %s", isbn, memberID))
	}

	loan.ReturnDate = s.Today()
	if _, err := s.Loans.Update(loan, library.LoanID); err != nil {
		return library.Loan{}, fmt.Errorf("failed to update loan: %w", err)
	}

	book, found, err := s.Books.Find(library.BookISBN, isbn)
	if err != nil {
		return library.Loan{}, fmt.Errorf("failed to look up book: %w", err)
	}
	if found {
		book.CopiesAvailable = min(book.CopiesAvailable+1, book.CopiesTotal)
		if _, err := s.Books.Update(book, library.BookISBN); err != nil {
			return library.Loan{}, fmt.Errorf("failed to update book: %w", err)
		}
	} else {
		slog.Warn("Returned loan for a book missing from the catalogue", "isbn", isbn, "loan_id", loan.LoanID)
	}

	slog.Info("Returned book", "loan_id", loan.LoanID, "isbn", isbn, "member_id", memberID)
	return loan, nil
}

// Overdue lists open loans whose due date has passed, in loan file order.
func (s *Service) Overdue() ([]OverdueLoan, error) {
	today := s.now()

	loans, err := s.Loans.Select(func(l library.Loan) bool { return l.IsOverdue(today) })
	if err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	if len(loans) == 0 {
		return nil, nil
	}

	titles, err := s.bookTitles()
	if err != nil {
		return nil, err
	}
	members, err := s.Members.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	byID := make(map[string]library.Member, len(members))
	for _, m := range members {
		if _, seen := byID[m.MemberID]; !seen {
			byID[m.MemberID] = m
		}
	}

	overdue := make([]OverdueLoan, 0, len(loans))
	for _, loan := range loans {
		entry := OverdueLoan{
			Loan:        loan,
			BookTitle:   "Unknown Book",
			MemberName:  "Unknown Member",
			DaysOverdue: loan.DaysOverdue(today),
		}
		if title, ok := titles[loan.ISBN]; ok {
			entry.BookTitle = title
		}
		if m, ok := byID[loan.MemberID]; ok {
			entry.MemberName = m.Name
			entry.MemberEmail = m.Email
		}
		overdue = append(overdue, entry)
	}
	return overdue, nil
}

// SendReminders records a reminder for every overdue loan whose member has
// an e-mail address and returns how many were recorded. Reminders are
// written to the log; libris does not send mail itself.
func (s *Service) SendReminders(overdue []OverdueLoan) int {
	sent := 0
	for _, o := range overdue {
		if o.MemberEmail == "" {
			continue
		}
		slog.Info("Overdue reminder",
			"email", o.MemberEmail,
			"member", o.MemberName,
			"title", o.BookTitle,
			"due_date", o.Loan.DueDate,
			"days_overdue", o.DaysOverdue)
		sent++
	}
	return sent
}

// MemberLoans returns the loan history of memberID, oldest first.
func (s *Service) MemberLoans(memberID string) ([]LoanView, error) {
	memberID = strings.TrimSpace(memberID)

	loans, err := s.Loans.Select(func(l library.Loan) bool { return l.MemberID == memberID })
	if err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	if len(loans) == 0 {
		return nil, nil
	}

	titles, err := s.bookTitles()
	if err != nil {
		return nil, err
	}

	views := make([]LoanView, 0, len(loans))
	for _, loan := range loans {
		view := LoanView{Loan: loan, BookTitle: "Unknown Book", Status: StatusActive}
		if title, ok := titles[loan.ISBN]; ok {
			view.BookTitle = title
		}
		if !loan.IsOpen() {
			view.Status = StatusReturned
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) availableBook(isbn string) (library.Book, error) {
	book, err := s.Book(isbn)
	if err != nil {
		return library.Book{}, err
	}
	if book.CopiesAvailable <= 0 {
		return library.Book{}, errors.NewUnavailableError(book.ISBN, book.Title)
	}
	return book, nil
}

// lend records a new loan of book to memberID. loans is the current loan
// list, used to pick the next loan ID.
func (s *Service) lend(book library.Book, memberID string, loans []library.Loan) (library.Loan, error) {
	ids := make([]string, len(loans))
	for i, l := range loans {
		ids[i] = l.LoanID
	}

	issued := s.Today()
	due, err := library.DueDate(issued, s.loanDays)
	if err != nil {
		return library.Loan{}, err
	}

	loan := library.Loan{
		LoanID:    library.NextID(ids, s.loanStartID),
		MemberID:  memberID,
		ISBN:      book.ISBN,
		IssueDate: issued,
		DueDate:   due,
	}

	book.CopiesAvailable--
	if _, err := s.Books.Update(book, library.BookISBN); err != nil {
		return library.Loan{}, fmt.Errorf("failed to update book: %w", err)
	}
	if err := s.Loans.Append(loan); err != nil {
		return library.Loan{}, fmt.Errorf("failed to save loan: %w", err)
	}

	slog.Info("Issued book", "loan_id", loan.LoanID, "isbn", book.ISBN, "member_id", memberID, "due_date", due)
	return loan, nil
}

func (s *Service) bookTitles() (map[string]string, error) {
	books, err := s.Books.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	titles := make(map[string]string, len(books))
	for _, b := range books {
		if _, seen := titles[b.ISBN]; !seen {
			titles[b.ISBN] = b.Title
		}
	}
	return titles, nil
}
