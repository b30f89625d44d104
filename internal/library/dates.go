package library

import (
	"math"
	"time"
)

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// DefaultLoanDays is the loan period used when none is configured.
const DefaultLoanDays = 14

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// DueDate returns the date days after issueDate, both as YYYY-MM-DD.
func DueDate(issueDate string, days int) (string, error) {
	issued, err := ParseDate(issueDate)
	if err != nil {
		return "", err
	}
	return FormatDate(issued.AddDate(0, 0, days)), nil
}

// IsOverdue reports whether an open loan was due before today.
func (l Loan) IsOverdue(today time.Time) bool {
	if !l.IsOpen() {
		return false
	}
	due, err := ParseDate(l.DueDate)
	if err != nil {
		return false
	}
	return due.Before(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DaysOverdue returns how many whole days past its due date an overdue loan is,
// or 0 when it is not overdue.
func (l Loan) DaysOverdue(today time.Time) int {
	if !l.IsOverdue(today) {
		return 0
	}
	due, _ := ParseDate(l.DueDate)
	return int(math.Round(startOfDay(today).Sub(due).Hours() / 24))
}
