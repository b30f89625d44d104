package console

import (
	"strconv"
	"strings"

	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/errors"
)

func (c *Console) librarianMenu(session *auth.Session) error {
	for session.HasRole(auth.RoleLibrarian) {
		c.clear()
		c.title("Librarian Dashboard")
		c.println("1. Add Book")
		c.println("2. Register Member")
		c.println("3. Issue Book")
		c.println("4. Return Book")
		c.println("5. Overdue List")
		c.println("6. Logout")

		choice, err := c.ask("> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.runAction(c.addBook)
		case "2":
			err = c.runAction(c.registerMember)
		case "3":
			err = c.runAction(c.issueBook)
		case "4":
			err = c.runAction(c.returnBook)
		case "5":
			err = c.runAction(c.overdueList)
		case "6":
			session.Logout()
			return nil
		default:
			c.println("Invalid choice.")
		}
		if err != nil {
			return err
		}

		if err := c.pause(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) addBook() error {
	c.section("Add New Book")

	isbn, err := c.ask("ISBN: ")
	if err != nil {
		return err
	}
	if _, err := c.svc.Book(isbn); err == nil {
		c.printf("Book with ISBN %s already exists.\n", isbn)
		return nil
	} else if !errors.IsNotFoundError(err) {
		return err
	}

	title, err := c.ask("Title: ")
	if err != nil {
		return err
	}
	author, err := c.ask("Author: ")
	if err != nil {
		return err
	}
	answer, err := c.ask("Number of copies: ")
	if err != nil {
		return err
	}
	copies, convErr := strconv.Atoi(answer)
	if convErr != nil {
		c.println("Invalid number. Using default of 1.")
		copies = 1
	}

	book, err := c.svc.AddBook(isbn, title, author, copies)
	if err != nil {
		return err
	}
	c.printf("Book '%s' added successfully.\n", book.Title)
	return nil
}

func (c *Console) registerMember() error {
	c.section("Register New Member")

	name, err := c.ask("Name: ")
	if err != nil {
		return err
	}
	password, err := c.ask("Password: ")
	if err != nil {
		return err
	}
	email, err := c.ask("Email: ")
	if err != nil {
		return err
	}

	member, err := c.auth.Register(name, password, email)
	if err != nil {
		return err
	}
	c.printf("Member '%s' registered successfully with ID %s.\n", member.Name, member.MemberID)
	return nil
}

func (c *Console) issueBook() error {
	c.section("Issue Book")

	isbn, err := c.ask("ISBN to issue: ")
	if err != nil {
		return err
	}
	book, err := c.svc.Book(isbn)
	if err != nil {
		return err
	}
	if book.CopiesAvailable <= 0 {
		c.printf("No copies of '%s' are available.\n", book.Title)
		return nil
	}

	memberID, err := c.ask("Member ID: ")
	if err != nil {
		return err
	}

	loan, err := c.svc.IssueBook(book.ISBN, memberID)
	if err != nil {
		return err
	}
	c.printf("Book issued. Due on %s.\n", loan.DueDate)
	return nil
}

func (c *Console) returnBook() error {
	c.section("Return Book")

	isbn, err := c.ask("ISBN to return: ")
	if err != nil {
		return err
	}
	memberID, err := c.ask("Member ID: ")
	if err != nil {
		return err
	}

	if _, err := c.svc.ReturnBook(isbn, memberID); err != nil {
		if errors.IsNotFoundError(err) {
			c.println("No active loan found for this book and member.")
			return nil
		}
		return err
	}
	c.println("Book returned successfully.")
	return nil
}

func (c *Console) overdueList() error {
	c.section("Overdue Books")

	overdue, err := c.svc.Overdue()
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		c.println("No overdue books.")
		return nil
	}

	WriteOverdue(c.out, overdue)

	answer, err := c.ask("\nSend email reminders? (y/n): ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "y") {
		sent := c.svc.SendReminders(overdue)
		c.printf("Reminders sent for %d of %d overdue loans.\n", sent, len(overdue))
	}
	return nil
}
