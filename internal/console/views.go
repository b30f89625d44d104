package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/library"
)

// WriteBooks prints a catalogue table.
func WriteBooks(w io.Writer, books []library.Book) {
	rows := make([][]string, len(books))
	for i, b := range books {
		rows[i] = []string{b.ISBN, b.Title, b.Author, fmt.Sprintf("%d/%d", b.CopiesAvailable, b.CopiesTotal)}
	}
	WriteTable(w, []Column{
		{Title: "ISBN", Width: 15},
		{Title: "Title", Width: 30},
		{Title: "Author", Width: 20},
		{Title: "Available", Width: 10},
	}, rows)
}

// WriteMembers prints a member table without password hashes.
func WriteMembers(w io.Writer, members []library.Member) {
	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{m.MemberID, m.Name, m.Email, m.JoinDate}
	}
	WriteTable(w, []Column{
		{Title: "Member ID", Width: 10},
		{Title: "Name", Width: 25},
		{Title: "Email", Width: 30},
		{Title: "Joined", Width: 12},
	}, rows)
}

// WriteOverdue prints overdue loans with the borrower and title.
func WriteOverdue(w io.Writer, overdue []circulation.OverdueLoan) {
	rows := make([][]string, len(overdue))
	for i, o := range overdue {
		rows[i] = []string{o.Loan.LoanID, o.MemberName, o.BookTitle, o.Loan.DueDate, strconv.Itoa(o.DaysOverdue)}
	}
	WriteTable(w, []Column{
		{Title: "Loan ID", Width: 10},
		{Title: "Member", Width: 20},
		{Title: "Book Title", Width: 30},
		{Title: "Due Date", Width: 12},
		{Title: "Days", Width: 5},
	}, rows)
}

// WriteLoanHistory prints a member's loans with their status.
func WriteLoanHistory(w io.Writer, loans []circulation.LoanView) {
	rows := make([][]string, len(loans))
	for i, l := range loans {
		rows[i] = []string{l.BookTitle, l.Loan.IssueDate, l.Loan.DueDate, l.Status}
	}
	WriteTable(w, []Column{
		{Title: "Book Title", Width: 30},
		{Title: "Issue Date", Width: 12},
		{Title: "Due Date", Width: 12},
		{Title: "Status", Width: 10},
	}, rows)
}
