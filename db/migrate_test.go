package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Run("creates graph tables", func(t *testing.T) {
		db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		for _, table := range []string{"schema_migrations", "nodes", "tags", "node_tags", "links"} {
			var n int
			err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "table %s should exist", table)
		}

		var versions int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
		assert.Equal(t, 3, versions)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil), "running migrations twice should be safe")

		version, err := SchemaVersion(db)
		require.NoError(t, err)
		assert.Equal(t, "002", version)
	})

	t.Run("schema version of a fresh database is empty", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		version, err := SchemaVersion(db)
		require.NoError(t, err)
		assert.Empty(t, version)
	})

	t.Run("tag deletion detaches children", func(t *testing.T) {
		db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec(`INSERT INTO tags (id, name) VALUES ('root', 'root')`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO tags (id, name, parent_id) VALUES ('child', 'child', 'root')`)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM tags WHERE id = 'root'`)
		require.NoError(t, err)

		var parent *string
		require.NoError(t, db.QueryRow(`SELECT parent_id FROM tags WHERE id = 'child'`).Scan(&parent))
		assert.Nil(t, parent)
	})

	t.Run("fails on a closed database", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(db, nil)
		require.Error(t, err)
	})
}
