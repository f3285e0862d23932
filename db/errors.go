package db

import (
	"strings"

	"github.com/teranos/nodegraph/errors"
)

// ErrDatabaseClosed marks store calls that arrive after shutdown
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed matches ErrDatabaseClosed anywhere in the chain, plus the
// unwrapped message database/sql returns for a closed handle.
func IsDatabaseClosed(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrDatabaseClosed):
		return true
	default:
		return strings.HasSuffix(err.Error(), ErrDatabaseClosed.Error())
	}
}
