package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path string
}

const schema = `
	CREATE TABLE IF NOT EXISTS enriched_trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id TEXT,
		device_id TEXT,
		firmware_id TEXT,
		config_id TEXT,
		start_instant INTEGER NOT NULL,
		end_instant INTEGER NOT NULL,
		trip_duration REAL NOT NULL,
		start_hour INTEGER NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_latitude REAL,
		start_longitude REAL,
		end_latitude REAL,
		end_longitude REAL,
		trip_distance_km REAL,
		bearing_deg REAL,
		message_count INTEGER,
		encounter_count INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// Open initializes the output database and creates the enriched trips table.
// The caller owns the returned handle and closes it when the run ends.
func Open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[Database] Initialized successfully: %s", cfg.Path)
	return db, nil
}

// Transaction executes a function within a database transaction
func Transaction(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
