package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/library"
)

var testBooks = []library.Book{
	{ISBN: "9780134685991", Title: "The Go Programming Language", Author: "Donovan", CopiesTotal: 2, CopiesAvailable: 1},
	{ISBN: "9780262033848", Title: "Introduction to Algorithms", Author: "Cormen", CopiesTotal: 1, CopiesAvailable: 0},
}

// stubProgram replaces the bubbletea runner with one that feeds keys straight
// into the model.
func stubProgram(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		for _, k := range keys {
			m, _ = m.Update(k)
		}
		return m, nil
	}
	t.Cleanup(func() { runProgram = orig })
}

func TestSelectBookEmptyListSkips(t *testing.T) {
	called := false
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		called = true
		return m, nil
	}
	t.Cleanup(func() { runProgram = orig })

	result, err := SelectBook("rust", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, result.Action)
	assert.Nil(t, result.Selection)
	assert.False(t, called)
}

func TestSelectBookEnterSelects(t *testing.T) {
	stubProgram(t, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	result, err := SelectBook("o", testBooks)
	require.NoError(t, err)
	assert.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "9780262033848", result.Selection.ISBN)
}

func TestSelectBookKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want SelectionAction
	}{
		{"skip", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, ActionSkipped},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, ActionSkipped},
		{"quit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, ActionStopped},
		{"interrupt", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProgram(t, tt.key)

			result, err := SelectBook("go", testBooks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Action)
			assert.Nil(t, result.Selection)
		})
	}
}

func TestSelectBookProgramError(t *testing.T) {
	orig := runProgram
	runProgram = func(tea.Model) (tea.Model, error) { return nil, errors.New("no tty") }
	t.Cleanup(func() { runProgram = orig })

	_, err := SelectBook("go", testBooks)
	assert.EqualError(t, err, "no tty")
}

func TestDelegateRender(t *testing.T) {
	m := newModel("go", []bookItem{{Book: testBooks[0]}, {Book: testBooks[1]}})

	var buf bytes.Buffer
	newDelegate().Render(&buf, m.list, 1, bookItem{Book: testBooks[1]})

	out := buf.String()
	assert.Contains(t, out, "Introduction to Algorithms")
	assert.Contains(t, out, "Cormen")
	assert.Contains(t, out, "ISBN 9780262033848")
	assert.Contains(t, out, "none of 1 available")
}

func TestViewShowsTerm(t *testing.T) {
	m := newModel("algorithms", []bookItem{{Book: testBooks[1]}})
	assert.Contains(t, m.View(), "1 books found for: algorithms")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long   title here", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "as is", truncate("as   is", 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 72, clamp(72, 100, 40))
	assert.Equal(t, 50, clamp(72, 50, 40))
	assert.Equal(t, 40, clamp(72, 10, 40))
	assert.Equal(t, 72, clamp(72, 0, 40))
}
