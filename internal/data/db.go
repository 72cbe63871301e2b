package data

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"           // Register the PostgreSQL driver with database/sql.
	_ "github.com/mattn/go-sqlite3" // Register the SQLite driver with database/sql.
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DBConfig holds the settings needed to open the movie store.
type DBConfig struct {
	Driver       string        // DriverSQLite or DriverPostgres
	DSN          string        // SQLite file path or PostgreSQL connection string
	MaxOpenConns int           // 0 means unlimited
	MaxIdleConns int           // 0 keeps the database/sql default
	MaxIdleTime  time.Duration // 0 means connections are never closed for idleness
}

// OpenDB opens a connection pool for cfg, verifies it with a ping bounded by
// ctx, and creates the movies table if it does not exist yet.
func OpenDB(ctx context.Context, cfg DBConfig, logger *slog.Logger) (*sql.DB, error) {
	dsn := cfg.DSN

	switch cfg.Driver {
	case DriverSQLite:
		// The database file is created on first run; its directory must exist.
		var path string
		dsn, path = sqliteDSN(cfg.DSN)
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(db, cfg.Driver, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// sqliteDSN appends the store's pragmas to a SQLite DSN, keeping any query
// parameters the caller already set. It also returns the file path the DSN
// points at, without the "file:" prefix or query.
func sqliteDSN(dsn string) (string, string) {
	const pragmas = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"

	path, _, hasQuery := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")

	sep := "?"
	if hasQuery {
		sep = "&"
	}
	return dsn + sep + pragmas, path
}

// Migrate applies the embedded migrations for driver using goose.
func Migrate(db *sql.DB, driver string, logger *slog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations/"+driver); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("database schema ready", "driver", driver, "version", version)
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "goose")
	os.Exit(1)
}
