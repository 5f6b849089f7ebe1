package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// user_version history:
// 1 - snapshots and statements tables
// 2 - index on statements.subject
const currentSchemaVersion = 2

// connPragmas are applied to the single connection after it opens.
var connPragmas = []string{
	// The CLI reads snapshots while a compile in another process writes.
	"PRAGMA journal_mode = WAL",
	// A lost snapshot after power failure is recompiled from its .cue file.
	"PRAGMA synchronous = NORMAL",
	// Matches lockTimeout in the compile command.
	"PRAGMA busy_timeout = 5000",
	// statements rows cascade with their snapshot.
	"PRAGMA foreign_keys = ON",
}

// Store holds compiled definition snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the snapshot database at path, creating it when missing, and
// brings its schema to currentSchemaVersion. ":memory:" gives a private
// database that lives as long as the Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to snapshot database %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and ":memory:" is per
	// connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	for _, pragma := range connPragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// applySchema runs the idempotent schema, then any migrations the file's
// user_version still needs.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations upgrades databases written by older versions.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV2 adds the subject index for databases created at v1.
func migrateToV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_statements_subject
		ON statements(subject)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// schemaVersion reads user_version back for the tests.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// verifyPragma compares a connection pragma with want.
func (s *Store) verifyPragma(name, want string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("read pragma %s: %w", name, err)
	}
	if value != want {
		return fmt.Errorf("pragma %s is %q, want %q", name, value, want)
	}
	return nil
}
