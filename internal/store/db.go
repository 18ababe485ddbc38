package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers. Postgres is the production target; sqlite is
// accepted for local development and throwaway environments.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// psql builds queries with $N placeholders, which both lib/pq and
// mattn/go-sqlite3 accept.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Config holds database connection settings.
type Config struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig returns a Config with the default pool limits.
func NewConfig(driver, url string) *Config {
	return &Config{
		Driver:          driver,
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 10 * time.Minute,
	}
}

// Open connects to the database, applies pool limits, and verifies the
// connection with a ping.
func (cfg *Config) Open(ctx context.Context) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	db, err := sqlx.Open(driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DBExecutor represents an interface that can execute database operations.
// It is satisfied by both *sqlx.DB and *sqlx.Tx, so repositories work with
// either regular connections or transactions.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

// Compile-time checks that both sqlx.DB and sqlx.Tx implement DBExecutor.
var (
	_ DBExecutor = (*sqlx.DB)(nil)
	_ DBExecutor = (*sqlx.Tx)(nil)
)

// Store bundles the three repositories over a shared executor.
type Store struct {
	Users      *Users
	Categories *Categories
	Todos      *Todos
}

// New builds a Store over the given executor.
func New(db DBExecutor) *Store {
	return &Store{
		Users:      NewUsers(db),
		Categories: NewCategories(db),
		Todos:      NewTodos(db),
	}
}
