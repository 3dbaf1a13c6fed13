package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "0001_init.sql", entries[0].Name())

	body, err := fs.ReadFile(migrationFS, "migrations/0001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"products", "posts", "leads", "app_scripts", "users"} {
		assert.True(t, strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
}

func TestMigrateRequiresConnection(t *testing.T) {
	_, err := Migrate(context.Background(), nil)
	assert.Error(t, err)
}
