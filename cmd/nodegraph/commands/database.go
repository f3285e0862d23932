package commands

import (
	"database/sql"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/db"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/logger"
)

// defaultDBPath is used when neither config nor NODEGRAPH_DB names a database
const defaultDBPath = "nodegraph.db"

// resolveDBPath picks the database path: explicit flag, then
// NODEGRAPH_DB, then config, then defaultDBPath
func resolveDBPath(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	path, err := am.GetDatabasePath()
	if err != nil {
		return "", errors.Wrap(err, "failed to get database path")
	}
	if path == "" {
		return defaultDBPath, nil
	}
	return path, nil
}

// openDatabase opens and migrates the database at dbPath (resolved as in
// resolveDBPath), logging through logger.Logger
func openDatabase(dbPath string) (*sql.DB, string, error) {
	path, err := resolveDBPath(dbPath)
	if err != nil {
		return nil, "", err
	}

	database, err := db.OpenWithMigrations(path, logger.AddDBSymbol(logger.Logger))
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to open database at %s", path)
	}
	return database, path, nil
}
