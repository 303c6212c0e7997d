package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add funding opportunities table", "initial opportunity schema")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.Contains(t, mf.UpPath, "add_funding_opportunities_table.up.sql")
		assert.Contains(t, mf.DownPath, "add_funding_opportunities_table.down.sql")

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add funding opportunities table")
		assert.Contains(t, string(up), "initial opportunity schema")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "rollback")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(dir, "seed bots", "")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces to underscores", "add proposal table", "add_proposal_table"},
		{"mixed case lowered", "Add Credit Ledger", "add_credit_ledger"},
		{"hyphens collapse", "fix--deadline---index", "fix_deadline_index"},
		{"punctuation stripped", "drop bots! (v2)", "drop_bots_v2"},
		{"trailing separators trimmed", "seed donors  ", "seed_donors"},
		{"digits kept", "backfill 2024 awards", "backfill_2024_awards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists one entry per pair", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20240101000000_create_users.up.sql",
			"20240101000000_create_users.down.sql",
			"20240102000000_create_opportunities.up.sql",
			"20240102000000_create_opportunities.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
		}

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20240101000000_create_users",
			"20240102000000_create_opportunities",
		}, migrations)
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
