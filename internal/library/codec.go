package library

import (
	"fmt"
	"strconv"

	"github.com/lepinkainen/libris/internal/recordstore"
)

const (
	bookFields      = 5
	memberFields    = 5
	loanFields      = 6
	loanFieldsShort = 5 // rows written before the return date column existed
)

// BookCodec maps a Book to isbn,title,author,copies_total,copies_available.
var BookCodec = recordstore.Codec[Book]{
	Encode: func(b Book) []string {
		return []string{
			b.ISBN,
			b.Title,
			b.Author,
			strconv.Itoa(b.CopiesTotal),
			strconv.Itoa(b.CopiesAvailable),
		}
	},
	Decode: func(row []string) (Book, error) {
		if len(row) != bookFields {
			return Book{}, fmt.Errorf("book row has %d fields, want %d", len(row), bookFields)
		}
		total, err := parseCount("copies_total", row[3])
		if err != nil {
			return Book{}, err
		}
		available, err := parseCount("copies_available", row[4])
		if err != nil {
			return Book{}, err
		}
		return Book{
			ISBN:            row[0],
			Title:           row[1],
			Author:          row[2],
			CopiesTotal:     total,
			CopiesAvailable: available,
		}, nil
	},
}

// MemberCodec maps a Member to member_id,name,password_hash,email,join_date.
var MemberCodec = recordstore.Codec[Member]{
	Encode: func(m Member) []string {
		return []string{m.MemberID, m.Name, m.PasswordHash, m.Email, m.JoinDate}
	},
	Decode: func(row []string) (Member, error) {
		if len(row) != memberFields {
			return Member{}, fmt.Errorf("member row has %d fields, want %d", len(row), memberFields)
		}
		return Member{
			MemberID:     row[0],
			Name:         row[1],
			PasswordHash: row[2],
			Email:        row[3],
			JoinDate:     row[4],
		}, nil
	},
}

// LoanCodec maps a Loan to loan_id,member_id,isbn,issue_date,due_date,return_date.
// The return date is always written, as an empty field for open loans.
var LoanCodec = recordstore.Codec[Loan]{
	Encode: func(l Loan) []string {
		return []string{l.LoanID, l.MemberID, l.ISBN, l.IssueDate, l.DueDate, l.ReturnDate}
	},
	Decode: func(row []string) (Loan, error) {
		if len(row) != loanFields && len(row) != loanFieldsShort {
			return Loan{}, fmt.Errorf("loan row has %d fields, want %d", len(row), loanFields)
		}
		loan := Loan{
			LoanID:    row[0],
			MemberID:  row[1],
			ISBN:      row[2],
			IssueDate: row[3],
			DueDate:   row[4],
		}
		if len(row) == loanFields {
			loan.ReturnDate = row[5]
		}
		return loan, nil
	},
}

func parseCount(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return n, nil
}
