package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded SQL file, versioned by its numeric prefix
type migration struct {
	version string
	file    string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		data, err := migrations.ReadFile(path.Join(migrationsDir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		version, _, _ := strings.Cut(name, "_")
		out = append(out, migration{version: version, file: name, sql: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in version order. Each runs in its own transaction.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	all, err := loadMigrations()
	if err != nil {
		return err
	}
	if len(all) == 0 || all[0].version != "000" {
		return errors.New("migration 000 (schema_migrations) is missing")
	}

	// 000 is idempotent and must exist before applied versions can be read
	if _, err := db.Exec(all[0].sql); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range all {
		if applied[m.version] {
			logger.Debugw("Skipping migration (already applied)", "migration", m.file)
			continue
		}
		logger.Infow("Applying migration", "migration", m.file, "version", m.version)
		if err := applyMigration(db, m); err != nil {
			return err
		}
		count++
	}

	logger.Infow("Migrations complete",
		"symbol", sym.DB,
		"total_migrations", len(all),
		"applied", count,
	)
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", m.file)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied migration version, or "" for a
// database that was never migrated
func SchemaVersion(db *sql.DB) (string, error) {
	var version sql.NullString
	err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return "", nil
		}
		return "", errors.Wrap(err, "read schema version")
	}
	return version.String, nil
}
