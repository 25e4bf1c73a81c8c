package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Open opens the order store and applies pending migrations.
// An empty driver means SQLite; an empty SQLite dsn means app.db.
func Open(driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver == DriverSQLite && dsn == "" {
		dsn = "app.db"
	}
	dialect, err := gooseDialect(driver)
	if err != nil {
		return nil, err
	}
	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if driver == DriverSQLite {
		// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
		_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
		if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	if err := migrate(d, dialect, goose.Up); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// RollbackLast rolls back the most recently applied migration.
func RollbackLast(d *sql.DB, driver string) error {
	if d == nil {
		return errors.New("nil db")
	}
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	return migrate(d, dialect, goose.Down)
}

// Version reports the current migration version.
func Version(d *sql.DB, driver string) (int64, error) {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return 0, err
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(d)
}

// StatementBuilder returns a squirrel builder with the placeholder style of driver.
func StatementBuilder(driver string) sq.StatementBuilderType {
	if driver == DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func migrate(d *sql.DB, dialect string, run func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := run(d, migrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case "", DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported db driver %q", driver)
}
