// Package library defines the catalogue entities and how they map to CSV rows.
package library

// Book is a catalogue entry. ISBN is its key.
type Book struct {
	ISBN            string `json:"isbn" yaml:"isbn"`
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	CopiesTotal     int    `json:"copies_total" yaml:"copies_total"`
	CopiesAvailable int    `json:"copies_available" yaml:"copies_available"`
}

// Member is a registered library user. The librarian account is the member with ID AdminID.
type Member struct {
	MemberID     string `json:"member_id" yaml:"member_id"`
	Name         string `json:"name" yaml:"name"`
	PasswordHash string `json:"-" yaml:"-"`
	Email        string `json:"email" yaml:"email"`
	JoinDate     string `json:"join_date" yaml:"join_date"`
}

// Loan records one copy of a book lent to a member. An empty ReturnDate means
// the loan is still open.
type Loan struct {
	LoanID     string `json:"loan_id" yaml:"loan_id"`
	MemberID   string `json:"member_id" yaml:"member_id"`
	ISBN       string `json:"isbn" yaml:"isbn"`
	IssueDate  string `json:"issue_date" yaml:"issue_date"`
	DueDate    string `json:"due_date" yaml:"due_date"`
	ReturnDate string `json:"return_date,omitempty" yaml:"return_date,omitempty"`
}

// IsOpen reports whether the loan has not been returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnDate == ""
}

// AdminID is the member ID of the built-in librarian account.
const AdminID = "admin"

// BookISBN is the store key of a Book.
func BookISBN(b Book) string { return b.ISBN }

// MemberID is the store key of a Member.
func MemberID(m Member) string { return m.MemberID }

// LoanID is the store key of a Loan.
func LoanID(l Loan) string { return l.LoanID }
