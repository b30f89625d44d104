package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/testutil"
	"github.com/lepinkainen/libris/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local) }

type fixture struct {
	svc   *circulation.Service
	authn *auth.Authenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := testutil.NewTestEnv(t)
	svc, err := circulation.Open(env.Path("data"), circulation.Options{Now: fixedNow})
	require.NoError(t, err)

	authn := auth.New(svc.Members, auth.Options{AttemptWindow: -1, Now: fixedNow})
	_, err = authn.EnsureAdmin("library123")
	require.NoError(t, err)

	return &fixture{svc: svc, authn: authn}
}

// run feeds one answer per line to a console and returns what it printed.
func (f *fixture) run(t *testing.T, opts Options, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := New(input, &out, f.svc, f.authn, opts)
	require.NoError(t, c.Run())
	return out.String()
}

func TestExit(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "3")
	assert.Contains(t, out, "Library Management System")
	assert.Contains(t, out, "Goodbye!")
}

func TestEndOfInputExitsCleanly(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, f.svc, f.authn, Options{})
	require.NoError(t, c.Run())
	assert.NotContains(t, out.String(), "Goodbye!")

	// Mid-action
	out.Reset()
	c = New(strings.NewReader("1\nlibrary123\n1\n978"), &out, f.svc, f.authn, Options{})
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Title: ")
}

func TestInvalidChoice(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "9", "1", "library123", "0", "6", "3")
	assert.Equal(t, 2, strings.Count(out, "Invalid choice."))
}

func TestLoginFailed(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "1", "wrong", "2", "4242", "pw", "3")
	assert.Contains(t, out, "Login failed: incorrect password")
	assert.Contains(t, out, "Login failed: member ID not found")
	assert.NotContains(t, out, "Librarian Dashboard")
}

func TestLibrarianWorkflow(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{},
		"1", "library123",
		"1", "9780134685991", "Go Book", "Donovan", "lots",
		"1", "9780134685991",
		"2", "Ada", "secret", "ada@example.com",
		"3", "9780134685991", "1001",
		"3", "9780134685991",
		"3", "0000000000000",
		"4", "9780134685991", "1001",
		"4", "9780134685991", "1001",
		"6",
		"3",
	)

	assert.Contains(t, out, "Librarian Dashboard")
	assert.Contains(t, out, "Invalid number. Using default of 1.")
	assert.Contains(t, out, "Book 'Go Book' added successfully.")
	assert.Contains(t, out, "Book with ISBN 9780134685991 already exists.")
	assert.Contains(t, out, "Member 'Ada' registered successfully with ID 1001.")
	assert.Contains(t, out, "Book issued. Due on 2025-05-15.")
	assert.Contains(t, out, "No copies of 'Go Book' are available.")
	assert.Contains(t, out, "Error: book with ISBN 0000000000000 not found")
	assert.Contains(t, out, "Book returned successfully.")
	assert.Contains(t, out, "No active loan found for this book and member.")
	assert.Contains(t, out, "Goodbye!")

	book, err := f.svc.Book("9780134685991")
	require.NoError(t, err)
	assert.Equal(t, 1, book.CopiesAvailable)
}

func TestOverdueListAndReminders(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{}, "1", "library123", "5", "6", "3")
	assert.Contains(t, out, "No overdue books.")

	member, err := f.authn.Register("Ada Lovelace", "secret", "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.Loans.Append(library.Loan{
		LoanID: "1", MemberID: member.MemberID, ISBN: "9780134685991", IssueDate: "2025-04-01", DueDate: "2025-04-15",
	}))

	out = f.run(t, Options{}, "1", "library123", "5", "y", "6", "3")
	assert.Contains(t, out, "Loan ID")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Unknown Book")
	assert.Contains(t, out, "2025-04-15")
	assert.Contains(t, out, "Reminders sent for 1 of 1 overdue loans.")
}

func TestMemberWorkflow(t *testing.T) {
	f := newFixture(t)
	_, err := f.authn.Register("Ada Lovelace", "secret", "ada@example.com")
	require.NoError(t, err)
	_, err = f.svc.AddBook("9780134685991", "The Go Programming Language", "Donovan", 2)
	require.NoError(t, err)
	_, err = f.svc.AddBook("9780262033848", "Introduction to Algorithms", "Cormen", 1)
	require.NoError(t, err)

	out := f.run(t, Options{},
		"2", "1001", "secret",
		"3",
		"1", "go",
		"1", "rust",
		"2", "9780134685991",
		"2", "9780134685991",
		"3",
		"4",
		"3",
	)

	assert.Contains(t, out, "Member Dashboard")
	assert.Contains(t, out, "Logged in as Ada Lovelace (1001)")
	assert.Contains(t, out, "You have no loan history.")
	assert.Contains(t, out, "Found 2 books:")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "No books found matching your search.")
	assert.Contains(t, out, "You've borrowed 'The Go Programming Language'. Please return by 2025-05-15.")
	assert.Contains(t, out, "Error: you already have this book on loan")
	assert.Contains(t, out, "Active")
}

func TestMemberSearchUsesPicker(t *testing.T) {
	f := newFixture(t)
	_, err := f.authn.Register("Ada Lovelace", "secret", "")
	require.NoError(t, err)
	_, err = f.svc.AddBook("9780262033848", "Introduction to Algorithms", "Cormen", 1)
	require.NoError(t, err)

	var pickedTerm string
	var offered []library.Book
	picker := func(term string, books []library.Book) (tui.SelectionResult, error) {
		pickedTerm = term
		offered = books
		return tui.SelectionResult{Action: tui.ActionSelected, Selection: &books[0]}, nil
	}

	out := f.run(t, Options{Interactive: true, Picker: picker},
		"2", "1001", "secret", "1", "algo", "4", "3")

	assert.Equal(t, "algo", pickedTerm)
	require.Len(t, offered, 1)
	assert.NotContains(t, out, "Found 1 books:")
	assert.Contains(t, out, "You've borrowed 'Introduction to Algorithms'.")

	book, err := f.svc.Book("9780262033848")
	require.NoError(t, err)
	assert.Equal(t, 0, book.CopiesAvailable)
}

func TestPauseAndClearScreen(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, Options{Pause: true, ClearScreen: true}, "9", "", "3")
	assert.Contains(t, out, clearSequence)
	assert.Contains(t, out, "Press Enter to continue...")
	assert.Contains(t, out, "Goodbye!")
}

func TestTable(t *testing.T) {
	var out bytes.Buffer

	WriteTable(&out, []Column{{"ID", 4}, {"Name", 6}}, [][]string{{"1", "Ada"}, {"22"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID   Name")
	assert.Equal(t, strings.Repeat("-", 11), lines[1])
	assert.Equal(t, "1    Ada", lines[2])
	assert.Equal(t, "22", lines[3])
}
