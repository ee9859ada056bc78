// Package storage persists the high score between rounds and runs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// HighScores loads and saves the best score seen so far.
type HighScores interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, score int) error
}

// SQLite stores the high score in a key/value table.
type SQLite struct {
	conn *sqlx.DB
	key  string
}

// OpenSQLite opens or creates a SQLite database at path.
func OpenSQLite(path, key string) (*SQLite, error) {
	if key == "" {
		key = "high_score"
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared
	conn.SetMaxOpenConns(1)

	db := &SQLite{conn: conn, key: key}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SQLite) migrate() error {
	_, err := db.conn.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Load returns the stored high score, or 0 when none has been saved.
func (db *SQLite) Load(ctx context.Context) (int, error) {
	var value string
	err := db.conn.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", db.key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("high score %q is not a number: %w", value, err)
	}
	return score, nil
}

// Save stores score, replacing any previous value.
func (db *SQLite) Save(ctx context.Context, score int) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)",
		db.key, strconv.Itoa(score),
	)
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *SQLite) Close() error {
	return db.conn.Close()
}

// Memory keeps the high score for the life of the process.
type Memory struct {
	mu    sync.Mutex
	score int
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored high score.
func (m *Memory) Load(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

// Save stores score.
func (m *Memory) Save(_ context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	return nil
}
