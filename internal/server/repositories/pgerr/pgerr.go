// Package pgerr maps driver-level PostgreSQL errors onto the shared error
// taxonomy so repositories report them uniformly.
package pgerr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shelfshare/shelfshare/internal/common"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Wrap classifies a repository error: connection-level failures become
// common.ErrStorageUnavailable, everything else is wrapped as a db error.
// Callers that care about unique violations must check IsUniqueViolation
// before wrapping.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
		// Class 08: connection exception.
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("db error: %w", err)
}
