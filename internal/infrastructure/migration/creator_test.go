package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair with a sortable version", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Create Products", "Affiliate catalog products table")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.Equal(t, "create_products", mf.Name)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_create_products.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_create_products.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Create Products")
		assert.Contains(t, string(up), "Affiliate catalog products table")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		_, err := CreateMigration(dir, "create clicks", "")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects a name with no usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "???", "")
		assert.Error(t, err)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"create products", "create_products"},
		{"Add og_image column", "add_og_image_column"},
		{"  spaced  out  ", "spaced_out"},
		{"drop-clicks-index", "drop_clicks_index"},
		{"v2", "v2"},
		{"???", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists pairs in apply order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260815120100_create_clicks.up.sql",
			"20260815120100_create_clicks.down.sql",
			"20260815120000_create_products.up.sql",
			"20260815120000_create_products.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, names, 2)
		assert.True(t, strings.HasSuffix(names[0], "create_products"))
		assert.True(t, strings.HasSuffix(names[1], "create_clicks"))
	})

	t.Run("missing directory is an empty list", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
