package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE orders (id uuid PRIMARY KEY);
CREATE INDEX idx_orders_user ON orders (user_id);

-- +migrate Down
DROP TABLE orders;
`
	t.Run("Up", func(t *testing.T) {
		up := section(content, "Up")
		assert.Contains(t, up, "CREATE TABLE orders")
		assert.Contains(t, up, "CREATE INDEX idx_orders_user")
		assert.NotContains(t, up, "DROP TABLE orders")
		assert.NotContains(t, up, "-- +migrate")
	})

	t.Run("Down", func(t *testing.T) {
		down := section(content, "Down")
		assert.Contains(t, down, "DROP TABLE orders")
		assert.NotContains(t, down, "CREATE TABLE orders")
	})
}

func TestMigrateUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	fileName := "0001_init.sql"
	filePath := filepath.Join(tmpDir, fileName)

	content := "-- +migrate Up\nCREATE TABLE shipments (id uuid);"
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs(fileName).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec("CREATE TABLE shipments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(fileName).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, migrateUp(db, []string{filePath}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUpSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "0001_init.sql")
	require.NoError(t, os.WriteFile(filePath, []byte("-- +migrate Up\nSELECT 1;"), 0644))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, migrateUp(db, []string{filePath}))
	require.NoError(t, mock.ExpectationsWereMet())
}
