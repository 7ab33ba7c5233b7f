// Package database manages the lead-store connection. The tracker itself is
// cookie-only; the database exists solely for lead intake, so a single
// connection serves the whole process.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/pkg/config"
)

// DB wraps the standard connection so repositories depend on one type
// regardless of which driver backs it.
type DB struct {
	*sql.DB
	UseTurso bool
}

// Connect opens the lead store. When Turso credentials are configured the
// libsql driver is used; otherwise a local SQLite file is opened, creating
// its directory on first run.
func Connect(logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()

	var conn *sql.DB
	var err error
	var useTurso bool

	if config.TursoDatabase != "" && config.TursoToken != "" {
		connStr := config.TursoDatabase + "?authToken=" + config.TursoToken
		logger.Database().Debug("Opening Turso connection", "database", config.TursoDatabase)
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		if err = conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("turso ping failed: %w", err)
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(config.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		logger.Database().Debug("Opening SQLite connection", "path", config.SQLitePath)
		conn, err = sql.Open("sqlite3", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err = conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(config.DBConnMaxLifetime)
	conn.SetConnMaxIdleTime(config.DBConnMaxIdle)

	db := &DB{DB: conn, UseTurso: useTurso}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Database().Info("Lead store ready",
		"driver", db.DriverLabel(),
		"duration", time.Since(start))
	return db, nil
}

// DriverLabel names the active driver for logs and health output.
func (db *DB) DriverLabel() string {
	if db.UseTurso {
		return "turso"
	}
	return "sqlite3"
}

func (db *DB) createSchema() error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}
	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		message TEXT,
		marketing_opt_in BOOLEAN NOT NULL DEFAULT 0,
		attribution TEXT,
		source_ip TEXT,
		user_agent TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)`,
}
