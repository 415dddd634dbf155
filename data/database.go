package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrDuplicate is wrapped into errors caused by a unique constraint, such as
// a second user with the same email or a second cycle with the same number.
var ErrDuplicate = errors.New("duplicate record")

// isUniqueViolation reports whether err comes from a unique constraint of
// either supported driver.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store is the persistence collaborator of the application. It is built once
// at startup and handed to whatever needs it.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
	now func() time.Time
}

// Open connects to the database described by driver and dsn and applies the schema.
func Open(ctx context.Context, driver, dsn string, log zerolog.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// sqlite only supports a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := NewStore(db, log)
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("driver", driver).Msg("database schema applied")
	return store, nil
}

// NewStore wraps an already opened connection. The schema is not applied.
func NewStore(db *sqlx.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "store").Logger(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	return nil
}

// sqliteDSN turns on foreign keys, which the list cascade relies on.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
