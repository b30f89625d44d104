// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/libris/internal/library"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected an item.
	ActionSelected
	// ActionSkipped indicates the user skipped the selection.
	ActionSkipped
	// ActionStopped indicates the user wants to leave the current menu.
	ActionStopped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *library.Book
}

type bookItem struct {
	library.Book
}

func (i bookItem) Title() string {
	return i.Book.Title
}

func (i bookItem) FilterValue() string {
	return i.Book.Title + " " + i.Author
}

func (i bookItem) Description() string {
	return i.Author
}

type itemStyles struct {
	normal       lipgloss.Style
	selected     lipgloss.Style
	titleStyle   lipgloss.Style
	authorStyle  lipgloss.Style
	isbnStyle    lipgloss.Style
	inStockStyle lipgloss.Style
	outStyle     lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		isbnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		inStockStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
		outStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("161")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 4 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	author := book.Author
	if author == "" {
		author = "Unknown author"
	}

	titleLine := d.styles.titleStyle.Render(truncate(book.Book.Title, m.Width()-4))
	authorLine := d.styles.authorStyle.Render(truncate(author, m.Width()-4))
	isbnLine := d.styles.isbnStyle.Render("ISBN " + book.ISBN)

	stock := d.styles.inStockStyle
	if book.CopiesAvailable <= 0 {
		stock = d.styles.outStyle
	}
	stockLine := stock.Render(availability(book.Book))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, authorLine, isbnLine, stockLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list   list.Model
	term   string
	result SelectionResult
}

func newModel(term string, items []bookItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:   l,
		term:   term,
		result: SelectionResult{Action: ActionNone},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookItem); ok {
				book := selected.Book
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &book,
				}
				return m, tea.Quit
			}
		case "s", "esc":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = SelectionResult{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("%d books found for: %s", len(m.list.Items()), m.term))
	help := helpStyle.Render("Up/Down navigate | Enter borrow | s skip | q back")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectBook lets the user pick one of the books matching term.
// An empty list is reported as skipped without starting the UI.
func SelectBook(term string, books []library.Book) (SelectionResult, error) {
	if len(books) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	items := make([]bookItem, len(books))
	for i, book := range books {
		items[i] = bookItem{Book: book}
	}

	finalModel, err := runProgram(newModel(term, items))
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func availability(b library.Book) string {
	if b.CopiesAvailable <= 0 {
		return fmt.Sprintf("none of %d available", b.CopiesTotal)
	}
	return fmt.Sprintf("%d of %d available", b.CopiesAvailable, b.CopiesTotal)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
