// Package main is the entry point for the watchlog server.
// It wires together configuration, the movie store, and the HTTP router.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/movies"
	"github.com/aoideee/watchlog/internal/validator"
	"github.com/aoideee/watchlog/internal/views"
)

// appVersion is the current version of the API, shown in logs and /healthcheck.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via command-line flags.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on (default 4000)
	environment string // Runtime environment: development, staging, or production
	profile     string // Movie profile: basic or extended
	db          struct {
		driver       string // sqlite3 or postgres
		dsn          string // SQLite file path or PostgreSQL DSN
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	limiter struct {
		enabled bool
		rps     float64
		burst   int
	}
	log struct {
		format     string // text or json
		level      string // debug, info, warn, error
		file       string // optional rotating log file
		maxSizeMB  int
		maxBackups int
		maxAgeDays int
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig    // Server configuration loaded from flags
	logger *slog.Logger    // Structured logger
	movies *movies.Service // Movie operations over the record store
	views  views.Renderer  // Page renderer for the form interface
}

func main() {
	// Read and validate the flags before anything else; exit code 2 matches flag's own usage errors.
	settings, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize the structured logger, optionally teeing into a rotated file.
	logger, closeLog := newLogger(settings, os.Stdout)
	defer closeLog()

	if err := run(settings, logger); err != nil {
		logger.Error(err.Error())
		// os.Exit skips deferred calls, so flush the log file first.
		closeLog()
		os.Exit(1)
	}
}

// run opens the store, builds the dependencies and blocks in serve until shutdown.
func run(settings serverConfig, logger *slog.Logger) error {
	// Opening, pinging and migrating the database must finish within 5 seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := data.OpenDB(ctx, data.DBConfig{
		Driver:       settings.db.driver,
		DSN:          settings.db.dsn,
		MaxOpenConns: settings.db.maxOpenConns,
		MaxIdleConns: settings.db.maxIdleConns,
		MaxIdleTime:  settings.db.maxIdleTime,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("database connection pool established", "driver", settings.db.driver)

	// Parse the embedded page templates once at startup.
	renderer, err := views.New()
	if err != nil {
		return err
	}

	// Bundle everything the handlers need into one struct.
	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		movies: movies.NewService(data.NewModels(db).Movies, data.Profile(settings.profile)),
		views:  renderer,
	}

	// Start the HTTP server; this blocks until a shutdown signal is handled.
	return appInstance.serve()
}

// parseFlags registers and parses the command-line flags, then validates them.
func parseFlags(args []string) (serverConfig, error) {
	var settings serverConfig

	fs := flag.NewFlagSet("watchlog", flag.ContinueOnError)

	fs.IntVar(&settings.port, "port", 4000, "Server port")
	fs.StringVar(&settings.environment, "env", "development", "Environment (development|staging|production)")
	fs.StringVar(&settings.profile, "profile", string(data.ProfileExtended), "Movie profile (basic|extended)")

	fs.StringVar(&settings.db.driver, "db-driver", data.DriverSQLite, "Database driver (sqlite3|postgres)")
	fs.StringVar(&settings.db.dsn, "db-dsn", "movies.db", "SQLite file path or PostgreSQL DSN")
	fs.IntVar(&settings.db.maxOpenConns, "db-max-open-conns", 25, "Database max open connections")
	fs.IntVar(&settings.db.maxIdleConns, "db-max-idle-conns", 25, "Database max idle connections")
	fs.DurationVar(&settings.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "Database max connection idle time")

	fs.BoolVar(&settings.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	fs.Float64Var(&settings.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.IntVar(&settings.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")

	fs.StringVar(&settings.log.format, "log-format", "text", "Log format (text|json)")
	fs.StringVar(&settings.log.level, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&settings.log.file, "log-file", "", "Also write logs to this file, rotated by size")
	fs.IntVar(&settings.log.maxSizeMB, "log-max-size-mb", 100, "Rotate the log file after this many megabytes")
	fs.IntVar(&settings.log.maxBackups, "log-max-backups", 3, "Number of rotated log files to keep")
	fs.IntVar(&settings.log.maxAgeDays, "log-max-age-days", 28, "Days to keep rotated log files")

	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}

	if err := validateConfig(settings); err != nil {
		return serverConfig{}, err
	}
	return settings, nil
}

// validateConfig rejects flag combinations the server cannot start with.
func validateConfig(settings serverConfig) error {
	v := validator.New()

	v.Check(settings.port > 0 && settings.port <= 65535, "port", "must be between 1 and 65535")
	v.Check(validator.In(settings.environment, "development", "staging", "production"), "env", "must be development, staging or production")
	v.Check(validator.In(settings.profile, string(data.ProfileBasic), string(data.ProfileExtended)), "profile", "must be basic or extended")
	v.Check(validator.In(settings.db.driver, data.DriverSQLite, data.DriverPostgres), "db-driver", "must be sqlite3 or postgres")
	v.Check(validator.NotBlank(settings.db.dsn), "db-dsn", "must be provided")
	v.Check(settings.db.maxOpenConns >= 0, "db-max-open-conns", "must not be negative")
	v.Check(settings.db.maxIdleConns >= 0, "db-max-idle-conns", "must not be negative")
	v.Check(validator.In(settings.log.format, "text", "json"), "log-format", "must be text or json")
	v.Check(validator.In(settings.log.level, "debug", "info", "warn", "error"), "log-level", "must be debug, info, warn or error")
	if settings.limiter.enabled {
		v.Check(settings.limiter.rps > 0, "limiter-rps", "must be greater than zero")
		v.Check(settings.limiter.burst > 0, "limiter-burst", "must be greater than zero")
	}

	if v.Valid() {
		return nil
	}

	// Map iteration order is random; sort so the message is stable.
	msgs := make([]string, 0, len(v.Errors))
	for key, msg := range v.Errors {
		msgs = append(msgs, "-"+key+" "+msg)
	}
	sort.Strings(msgs)
	return errors.New("invalid configuration: " + strings.Join(msgs, "; "))
}

// newLogger builds the structured logger. When a log file is configured,
// records are written to stdout and to a lumberjack-rotated file.
func newLogger(settings serverConfig, stdout io.Writer) (*slog.Logger, func()) {
	// validateConfig already restricted the level to names slog understands.
	var level slog.Level
	_ = level.UnmarshalText([]byte(settings.log.level))

	// Without -log-file everything goes to stdout only.
	out := stdout
	closeFn := func() {}
	if settings.log.file != "" {
		rotator := &lumberjack.Logger{
			Filename:   settings.log.file,
			MaxSize:    settings.log.maxSizeMB,
			MaxBackups: settings.log.maxBackups,
			MaxAge:     settings.log.maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, rotator)
		closeFn = func() { rotator.Close() }
	}

	// Pick the handler from -log-format; text is the default.
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if settings.log.format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	// Every record carries the version so mixed deployments can be told apart.
	return slog.New(handler).With("version", appVersion), closeFn
}
