package export

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newSnapshot(t *testing.T) (Snapshot, *testutil.TestEnv) {
	t.Helper()

	env := testutil.NewTestEnv(t)
	now := func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local) }
	svc, err := circulation.Open(env.Path("data"), circulation.Options{Now: now})
	require.NoError(t, err)

	require.NoError(t, svc.Members.Append(library.Member{
		MemberID: "1001", Name: "Ada Lovelace", PasswordHash: "secret-hash", Email: "ada@example.com", JoinDate: "2025-01-01",
	}))
	_, err = svc.AddBook("9780134685991", "The Go Programming Language", "Donovan", 2)
	require.NoError(t, err)
	_, err = svc.IssueBook("9780134685991", "1001")
	require.NoError(t, err)

	snap, err := Take(svc)
	require.NoError(t, err)
	return snap, env
}

func TestTake(t *testing.T) {
	snap, _ := newSnapshot(t)

	require.Len(t, snap.Books, 1)
	assert.Equal(t, 1, snap.Books[0].CopiesAvailable)
	require.Len(t, snap.Members, 1)
	assert.Empty(t, snap.Members[0].PasswordHash)
	require.Len(t, snap.Loans, 1)
	assert.Equal(t, "2025-05-15", snap.Loans[0].DueDate)
}

func TestWriteJSON(t *testing.T) {
	snap, env := newSnapshot(t)
	path := env.Path("out", "libris.json")

	written, err := Write(snap, FormatJSON, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	content := env.ReadFileString("out/libris.json")
	assert.NotContains(t, content, "secret-hash")
	assert.NotContains(t, content, "return_date")

	var got Snapshot
	require.NoError(t, json.Unmarshal([]byte(content), &got))
	assert.Equal(t, snap, got)

	written, err = Write(Snapshot{}, "JSON", path, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, content, env.ReadFileString("out/libris.json"))
}

func TestWriteJSONGolden(t *testing.T) {
	snap, env := newSnapshot(t)
	path := env.Path("libris.json")

	_, err := Write(snap, FormatJSON, path, false)
	require.NoError(t, err)

	golden := testutil.NewGoldenHelper(t, "testdata")
	golden.AssertGoldenJSON("snapshot.json", env.ReadFile("libris.json"))
}

func TestWriteYAML(t *testing.T) {
	snap, env := newSnapshot(t)

	written, err := Write(snap, FormatYAML, env.Path("libris.yaml"), false)
	require.NoError(t, err)
	assert.True(t, written)

	var got Snapshot
	require.NoError(t, yaml.Unmarshal(env.ReadFile("libris.yaml"), &got))
	assert.Equal(t, snap, got)
}

func TestWriteSQLite(t *testing.T) {
	snap, env := newSnapshot(t)
	path := env.Path("libris.db")

	// Exporting twice replaces rows instead of duplicating them
	for range 2 {
		written, err := Write(snap, FormatSQLite, path, false)
		require.NoError(t, err)
		assert.True(t, written)
	}

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for table, want := range map[string]int{"books": 1, "members": 1, "loans": 1} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Equal(t, want, n, table)
	}

	var title string
	var available int
	require.NoError(t, db.QueryRow("SELECT title, copies_available FROM books").Scan(&title, &available))
	assert.Equal(t, "The Go Programming Language", title)
	assert.Equal(t, 1, available)

	var returned sql.NullString
	require.NoError(t, db.QueryRow("SELECT return_date FROM loans WHERE loan_id = '1'").Scan(&returned))
	assert.False(t, returned.Valid)
}

func TestWriteSQLiteDuplicateKeys(t *testing.T) {
	env := testutil.NewTestEnv(t)
	snap := Snapshot{Books: []library.Book{
		{ISBN: "1", Title: "First", CopiesTotal: 1, CopiesAvailable: 1},
		{ISBN: "1", Title: "Second", CopiesTotal: 1, CopiesAvailable: 1},
	}}

	_, err := Write(snap, FormatSQLite, env.Path("dup.db"), false)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", env.Path("dup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var title string
	require.NoError(t, db.QueryRow("SELECT title FROM books").Scan(&title))
	assert.Equal(t, "First", title)
}

func TestWriteUnsupportedFormat(t *testing.T) {
	_, err := Write(Snapshot{}, "csv", "out.csv", false)
	assert.ErrorContains(t, err, `unsupported export format "csv"`)
}
