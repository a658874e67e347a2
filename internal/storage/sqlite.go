package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteFile is the database file name inside the shelf directory.
const sqliteFile = "shelf.db"

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// SQLiteNamespace stores keys in a single SQLite table.
// WAL mode and a busy timeout let several processes share the file.
type SQLiteNamespace struct {
	db *sql.DB
}

// OpenSQLiteNamespace creates or opens the database at path.
func OpenSQLiteNamespace(path string) (*SQLiteNamespace, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteNamespace{db: db}, nil
}

// Get reads one key.
func (n *SQLiteNamespace) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := n.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts one key in its own statement, which SQLite applies atomically.
func (n *SQLiteNamespace) Set(key string, value []byte) error {
	_, err := n.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (n *SQLiteNamespace) Close() error {
	if n.db == nil {
		return nil
	}
	return n.db.Close()
}
