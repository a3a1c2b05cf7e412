package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poultry_farm_backend/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB is the single store handle owned by the backend process.
type DB struct {
	*sqlx.DB
}

// Open connects to the configured store. It does not apply the schema; call Migrate for that.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		if cfg.Path == "" {
			return nil, errors.New("database path is required for sqlite3")
		}
		conn, err = sqlx.Open(DriverSQLite, cfg.Path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		// One connection: an in-memory store lives and dies with it, and the file store has one writer.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DB_DSN is required for postgres")
		}
		conn, err = sqlx.Open(DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.Info().Str("driver", conn.DriverName()).Msg("Successfully connected to the database")
	return &DB{DB: conn}, nil
}

// OpenAndMigrate opens the store and applies the schema and startup migrations.
func OpenAndMigrate(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// IsSQLite reports whether the handle talks to the embedded engine.
func (db *DB) IsSQLite() bool {
	return db.DriverName() == DriverSQLite
}

// WithTx executes fn within a transaction, rolling back when fn returns an error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}
