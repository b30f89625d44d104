package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/libris/cmd/goodreads"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/console"
	"github.com/lepinkainen/libris/internal/export"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	runConsole     = func(c *console.Console) error { return c.Run() }
	importGoodread = goodreads.Import
	writeExport    = export.Write
	isTerminal     = fileIsTerminal
)

func fileIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// MenuCmd runs the interactive console
type MenuCmd struct {
	NoInteractive bool `help:"Show search results as a table instead of the picker"`
}

// BookCmd groups the catalogue commands
type BookCmd struct {
	Add    BookAddCmd    `cmd:"" help:"Add a book to the catalogue (librarian)"`
	Search BookSearchCmd `cmd:"" help:"Search books by title or author"`
	List   BookListCmd   `cmd:"" help:"List the whole catalogue"`
}

// BookAddCmd adds a book
type BookAddCmd struct {
	ISBN   string `name:"isbn" required:"" help:"ISBN-10 or ISBN-13"`
	Title  string `required:"" help:"Book title"`
	Author string `help:"Book author"`
	Copies int    `default:"1" help:"Number of copies"`
}

// BookSearchCmd searches the catalogue
type BookSearchCmd struct {
	Term string `arg:"" optional:"" help:"Search term"`
}

// BookListCmd lists the catalogue
type BookListCmd struct{}

// MemberCmd groups the member commands
type MemberCmd struct {
	Register MemberRegisterCmd `cmd:"" help:"Register a new member (librarian)"`
	List     MemberListCmd     `cmd:"" help:"List members (librarian)"`
}

// MemberRegisterCmd registers a member
type MemberRegisterCmd struct {
	Name           string `required:"" help:"Member name"`
	Email          string `help:"Member e-mail address"`
	MemberPassword string `required:"" help:"Password for the new member"`
}

// MemberListCmd lists members
type MemberListCmd struct{}

// LoanCmd groups the circulation commands
type LoanCmd struct {
	Issue   LoanIssueCmd   `cmd:"" help:"Issue a book to a member (librarian)"`
	Return  LoanReturnCmd  `cmd:"" help:"Return a book (librarian)"`
	Overdue LoanOverdueCmd `cmd:"" help:"List overdue loans (librarian)"`
	List    LoanListCmd    `cmd:"" help:"Show the loan history of a member (librarian)"`
}

// LoanIssueCmd issues a book
type LoanIssueCmd struct {
	ISBN   string `name:"isbn" required:"" help:"ISBN of the book"`
	Member string `required:"" help:"Member ID"`
}

// LoanReturnCmd returns a book
type LoanReturnCmd struct {
	ISBN   string `name:"isbn" required:"" help:"ISBN of the book"`
	Member string `required:"" help:"Member ID"`
}

// LoanOverdueCmd lists overdue loans
type LoanOverdueCmd struct {
	Remind bool `help:"Log a reminder for every overdue loan with an e-mail address"`
}

// LoanListCmd lists the loans of one member
type LoanListCmd struct {
	Member string `required:"" help:"Member ID"`
}

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	Goodreads GoodreadsCmd `cmd:"" help:"Seed the catalogue from a Goodreads library export"`
}

// GoodreadsCmd represents the goodreads import command
type GoodreadsCmd struct {
	Input  string `short:"f" help:"Path to Goodreads library export CSV file"`
	Copies int    `default:"1" help:"Copies to add for books without an owned copies count"`
}

// ExportCmd writes a snapshot of all data files
type ExportCmd struct {
	Format    string `enum:"sqlite,json,yaml" default:"sqlite" help:"Output format (sqlite, json, yaml)"`
	Output    string `short:"o" help:"Output path (defaults to datasette.dbfile or libris.<format>)"`
	Overwrite bool   `help:"Overwrite an existing JSON or YAML file"`
}

func (m *MenuCmd) Run(app *App) error {
	if !app.verbose {
		// Keep info logs from interleaving with the menus
		initLogging(slog.LevelWarn)
	}

	c := console.New(app.In, app.Out, app.Service, app.Auth, m.consoleOptions(app))
	return runConsole(c)
}

// consoleOptions enables the picker only when answers come from a terminal,
// so piped input keeps getting plain result tables.
func (m *MenuCmd) consoleOptions(app *App) console.Options {
	return console.Options{
		ClearScreen: config.ClearScreen,
		Pause:       true,
		Interactive: config.Interactive && !m.NoInteractive && isTerminal(app.In),
	}
}

func (b *BookAddCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	book, err := app.Service.AddBook(b.ISBN, b.Title, b.Author, b.Copies)
	if err != nil {
		return err
	}
	app.printf("Book '%s' added with ISBN %s.\n", book.Title, book.ISBN)
	return nil
}

func (b *BookSearchCmd) Run(app *App) error {
	books, err := app.Service.Search(b.Term)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		app.printf("No books found matching your search.\n")
		return nil
	}
	console.WriteBooks(app.Out, books)
	return nil
}

func (b *BookListCmd) Run(app *App) error {
	books, err := app.Service.Catalogue()
	if err != nil {
		return err
	}
	if len(books) == 0 {
		app.printf("The catalogue is empty.\n")
		return nil
	}
	console.WriteBooks(app.Out, books)
	return nil
}

func (m *MemberRegisterCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	member, err := app.Auth.Register(m.Name, m.MemberPassword, m.Email)
	if err != nil {
		return err
	}
	app.printf("Member '%s' registered with ID %s.\n", member.Name, member.MemberID)
	return nil
}

func (m *MemberListCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	members, err := app.Service.ListMembers()
	if err != nil {
		return err
	}
	console.WriteMembers(app.Out, members)
	return nil
}

func (l *LoanIssueCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	loan, err := app.Service.IssueBook(l.ISBN, l.Member)
	if err != nil {
		return err
	}
	app.printf("Loan %s issued. Due on %s.\n", loan.LoanID, loan.DueDate)
	return nil
}

func (l *LoanReturnCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	loan, err := app.Service.ReturnBook(l.ISBN, l.Member)
	if err != nil {
		return err
	}
	app.printf("Loan %s returned on %s.\n", loan.LoanID, loan.ReturnDate)
	return nil
}

func (l *LoanOverdueCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	overdue, err := app.Service.Overdue()
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		app.printf("No overdue books.\n")
		return nil
	}
	console.WriteOverdue(app.Out, overdue)

	if l.Remind {
		sent := app.Service.SendReminders(overdue)
		app.printf("Reminders sent for %d of %d overdue loans.\n", sent, len(overdue))
	}
	return nil
}

func (l *LoanListCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}
	if _, err := app.Service.Member(l.Member); err != nil {
		return err
	}
	loans, err := app.Service.MemberLoans(l.Member)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		app.printf("Member %s has no loan history.\n", l.Member)
		return nil
	}
	console.WriteLoanHistory(app.Out, loans)
	return nil
}

func (g *GoodreadsCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}

	// Read from config if value not provided via flag
	input := g.Input
	if input == "" {
		input = viper.GetString("goodreads.csvfile")
	}
	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or goodreads.csvfile in config)")
	}

	result, err := importGoodread(app.Service, goodreads.Options{Input: input, DefaultCopies: g.Copies})
	if err != nil {
		return err
	}
	app.printf("Imported %d books, skipped %d.\n", result.Added, result.Skipped)
	return nil
}

func (e *ExportCmd) Run(app *App) error {
	if _, err := app.requireLibrarian(); err != nil {
		return err
	}

	output := e.Output
	if output == "" {
		output = defaultExportPath(e.Format)
	}

	snap, err := export.Take(app.Service)
	if err != nil {
		return err
	}
	written, err := writeExport(snap, e.Format, output, e.Overwrite)
	if err != nil {
		return err
	}
	if !written {
		app.printf("%s already exists, use --overwrite to replace it.\n", output)
		return nil
	}
	app.printf("Exported %d books, %d members and %d loans to %s.\n",
		len(snap.Books), len(snap.Members), len(snap.Loans), output)
	return nil
}

func defaultExportPath(format string) string {
	if format == export.FormatSQLite {
		return config.DatasetteDB
	}
	return filepath.Join(".", "libris."+format)
}
