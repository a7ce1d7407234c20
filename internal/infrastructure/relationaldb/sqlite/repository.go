// Package sqlite provides a SQLite implementation of the RecordStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/auditshield/internal/domain/ports"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
	"github.com/ersonp/auditshield/internal/infrastructure/watch"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

var _ ports.RecordStore = (*Repository)(nil)

// connPragmas are applied by the driver to every new connection.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Repository implements ports.RecordStore using SQLite.
type Repository struct {
	db     *sql.DB
	path   string
	dsn    string
	broker *watch.Broker

	pollMu   sync.Mutex
	pollStop chan struct{}
	pollDone chan struct{}
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := dataSourceName(cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across queries
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite database: %w", err)
	}

	return &Repository{
		db:     db,
		path:   cfg.Path,
		dsn:    dsn,
		broker: watch.NewBroker(),
	}, nil
}

// dataSourceName appends the connection pragmas to path. Foreign keys must be
// on for deleting an audit to cascade to its answers.
func dataSourceName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + connPragmas
}

// Close stops change polling and closes the database connection.
func (r *Repository) Close() error {
	r.stopPolling()
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema applies any pending migrations.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, r.db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// nullString maps the empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
