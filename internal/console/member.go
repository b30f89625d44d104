package console

import (
	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/tui"
)

func (c *Console) memberMenu(session *auth.Session) error {
	for session.HasRole(auth.RoleMember) {
		c.clear()
		c.title("Member Dashboard")
		c.printf("Logged in as %s (%s)\n", session.Name, session.UserID)
		c.println("1. Search Catalogue")
		c.println("2. Borrow Book")
		c.println("3. My Loans")
		c.println("4. Logout")

		choice, err := c.ask("> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.runAction(func() error { return c.searchCatalogue(session) })
		case "2":
			err = c.runAction(func() error { return c.borrowBook(session) })
		case "3":
			err = c.runAction(func() error { return c.myLoans(session) })
		case "4":
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

func (c *Console) searchCatalogue(session *auth.Session) error {
	c.section("Search Catalogue")

	term, err := c.ask("Enter search term (title/author): ")
	if err != nil {
		return err
	}

	books, err := c.svc.Search(term)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		c.println("No books found matching your search.")
		return nil
	}

	if c.opts.Interactive {
		result, err := c.opts.Picker(term, books)
		if err != nil {
			return err
		}
		if result.Action == tui.ActionSelected && result.Selection != nil {
			return c.borrow(session, result.Selection.ISBN)
		}
		return nil
	}

	c.printf("\nFound %d books:\n", len(books))
	WriteBooks(c.out, books)
	return nil
}

func (c *Console) borrowBook(session *auth.Session) error {
	c.section("Borrow Book")

	isbn, err := c.ask("Enter ISBN of book to borrow: ")
	if err != nil {
		return err
	}
	return c.borrow(session, isbn)
}

func (c *Console) borrow(session *auth.Session, isbn string) error {
	loan, book, err := c.svc.Borrow(session, isbn)
	if err != nil {
		return err
	}
	c.printf("You've borrowed '%s'. Please return by %s.\n", book.Title, loan.DueDate)
	return nil
}

func (c *Console) myLoans(session *auth.Session) error {
	c.section("My Loans")

	loans, err := c.svc.MemberLoans(session.UserID)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		c.println("You have no loan history.")
		return nil
	}

	WriteLoanHistory(c.out, loans)
	return nil
}
