// Package console implements the line-oriented librarian and member menus.
package console

import (
	"bufio"
	stdErrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/tui"
)

const clearSequence = "\033[H\033[2J"

var errEndOfInput = stdErrors.New("end of input")

// Picker lets the user choose one book out of a search result.
type Picker func(term string, books []library.Book) (tui.SelectionResult, error)

// Options controls terminal behaviour.
type Options struct {
	// ClearScreen clears the terminal before each menu.
	ClearScreen bool
	// Pause waits for Enter after each action.
	Pause bool
	// Interactive shows search hits in Picker instead of a table.
	Interactive bool
	// Picker defaults to tui.SelectBook.
	Picker Picker
}

// Console runs the menus over a line-based reader and writer.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	svc  *circulation.Service
	auth *auth.Authenticator
	opts Options
}

// New creates a Console reading answers from in and writing menus to out.
func New(in io.Reader, out io.Writer, svc *circulation.Service, authn *auth.Authenticator, opts Options) *Console {
	if opts.Picker == nil {
		opts.Picker = tui.SelectBook
	}
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		svc:  svc,
		auth: authn,
		opts: opts,
	}
}

// Run shows the login menu until the user exits or input ends.
func (c *Console) Run() error {
	err := c.loginMenu()
	if stdErrors.Is(err, errEndOfInput) {
		c.println()
		return nil
	}
	return err
}

func (c *Console) loginMenu() error {
	for {
		c.clear()
		c.title("Library Management System")
		c.println("1. Login as Librarian")
		c.println("2. Login as Member")
		c.println("3. Exit")

		choice, err := c.ask("> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			password, err := c.ask("Enter librarian password: ")
			if err != nil {
				return err
			}
			session, err := c.auth.LoginLibrarian(password)
			if err != nil {
				c.printf("Login failed: %v\n", err)
				if err := c.pause(); err != nil {
					return err
				}
				continue
			}
			if err := c.librarianMenu(session); err != nil {
				return err
			}
		case "2":
			memberID, err := c.ask("Enter Member ID: ")
			if err != nil {
				return err
			}
			password, err := c.ask("Enter Password: ")
			if err != nil {
				return err
			}
			session, err := c.auth.Login(memberID, password, auth.RoleMember)
			if err != nil {
				c.printf("Login failed: %v\n", err)
				if err := c.pause(); err != nil {
					return err
				}
				continue
			}
			if err := c.memberMenu(session); err != nil {
				return err
			}
		case "3":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid choice.")
			if err := c.pause(); err != nil {
				return err
			}
		}
	}
}

// runAction reports a failed action to the user. Only end of input and
// read errors stop the menu.
func (c *Console) runAction(action func() error) error {
	err := action()
	if err == nil {
		return nil
	}
	if stdErrors.Is(err, errEndOfInput) {
		return err
	}
	var readErr *readError
	if stdErrors.As(err, &readErr) {
		return err
	}
	c.printf("Error: %v\n", err)
	return nil
}

type readError struct{ err error }

func (e *readError) Error() string { return "failed to read input: " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func (c *Console) ask(label string) (string, error) {
	c.printf("%s", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", &readError{err: err}
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) pause() error {
	if !c.opts.Pause {
		return nil
	}
	_, err := c.ask("Press Enter to continue...")
	return err
}

func (c *Console) clear() {
	if c.opts.ClearScreen {
		c.printf("%s", clearSequence)
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}
