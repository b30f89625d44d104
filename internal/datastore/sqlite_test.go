package datastore

import (
	"testing"

	"github.com/lepinkainen/libris/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `CREATE TABLE IF NOT EXISTS shelves (
	id INTEGER PRIMARY KEY,
	name TEXT,
	books INTEGER
)`

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	env := testutil.NewTestEnv(t)
	store := NewSQLiteStore(env.Path("test.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.CreateTable(testSchema))
	return store
}

func countRows(t *testing.T, store *SQLiteStore, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteStore_CreateTableAndInsert(t *testing.T) {
	store := newTestStore(t)

	records := []map[string]any{
		{"id": 1, "name": "fiction", "books": 42},
		{"id": 2, "name": "reference", "books": 7},
	}
	require.NoError(t, store.BatchInsert("shelves", records))

	rows, err := store.db.Query("SELECT id, name, books FROM shelves ORDER BY id")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var got []map[string]any
	for rows.Next() {
		var id, books int
		var name string
		require.NoError(t, rows.Scan(&id, &name, &books))
		got = append(got, map[string]any{"id": id, "name": name, "books": books})
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, records, got)
}

func TestSQLiteStore_BatchInsertEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.BatchInsert("shelves", nil))
	assert.Equal(t, 0, countRows(t, store, "shelves"))
}

func TestSQLiteStore_BatchInsertRollsBackOnError(t *testing.T) {
	store := newTestStore(t)

	records := []map[string]any{
		{"id": 1, "name": "a", "books": 1},
		{"id": 1, "name": "duplicate", "books": 2},
	}
	assert.Error(t, store.BatchInsert("shelves", records))
	assert.Equal(t, 0, countRows(t, store, "shelves"))
}

func TestSQLiteStore_ClearTable(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.BatchInsert("shelves", []map[string]any{{"id": 1, "name": "a", "books": 1}}))

	require.NoError(t, store.ClearTable("shelves"))
	assert.Equal(t, 0, countRows(t, store, "shelves"))

	assert.Error(t, store.ClearTable("missing"))
}

func TestSQLiteStore_CreateTableInvalidSchema(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.CreateTable("CREATE TABLE ("))
}

func TestSQLiteStore_CloseWithoutConnect(t *testing.T) {
	assert.NoError(t, NewSQLiteStore("unused.db").Close())
}
