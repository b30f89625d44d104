package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))
)

// Column is one fixed-width table column.
type Column struct {
	Title string
	Width int
}

func (c *Console) title(text string) {
	c.println(titleStyle.Render("=== " + text + " ==="))
}

func (c *Console) section(text string) {
	c.println()
	c.title(text)
}

// WriteTable prints rows under a styled header line. Cells are padded to
// their column width and never cut.
func WriteTable(w io.Writer, columns []Column, rows [][]string) {
	header := make([]string, len(columns))
	total := 0
	for i, col := range columns {
		header[i] = pad(col.Title, col.Width)
		total += col.Width
	}
	total += len(columns) - 1

	_, _ = fmt.Fprintln(w, headerStyle.Render(strings.Join(header, " ")))
	_, _ = fmt.Fprintln(w, strings.Repeat("-", total))

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cells[i] = pad(value, col.Width)
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

func pad(value string, width int) string {
	return fmt.Sprintf("%-*s", width, value)
}
