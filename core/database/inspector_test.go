package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE runs (id INTEGER PRIMARY KEY, Status TEXT, started_at DATETIME)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "runs")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Field: "id", Type: "integer"},
		{Field: "status", Type: "text"},
		{Field: "started_at", Type: "datetime"},
	}, columns)

	columns, err = GetTableColumns(db, "missing")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE runs (id INTEGER PRIMARY KEY, status TEXT)").Error)

	missing, err := MissingColumns(db, "runs", []string{"id", "Status", "cycle_id", "report"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cycle_id", "report"}, missing)

	missing, err = MissingColumns(db, "runs", []string{"id"})
	require.NoError(t, err)
	assert.Empty(t, missing)
}
