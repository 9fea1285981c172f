// Package audit persists the per-command audit trail in SQLite: one row per
// successfully executed command with its attributes and executed transfers.
// The log is informational only and is never read back by the engine.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/thejohanmagnusson/bidding-contract/core"
)

// Log handles SQLite database operations for the command audit trail.
type Log struct {
	db *sql.DB
}

// Entry is one recorded command.
type Entry struct {
	ID         string           `json:"id"`
	Action     string           `json:"action"`
	Sender     string           `json:"sender"`
	Attributes []core.Attribute `json:"attributes"`
	Transfers  []core.Transfer  `json:"transfers"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Open creates a Log at the given database path, creating the schema if
// needed.
func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	log := &Log{db: db}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}
	return log, nil
}

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		sender TEXT NOT NULL,
		attributes TEXT NOT NULL,
		transfers TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_commands_action ON commands(action);
	CREATE INDEX IF NOT EXISTS idx_commands_sender ON commands(sender);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one executed command. The returned ID identifies the row
// and doubles as the receipt ID.
func (l *Log) Record(action, sender string, resp *core.Response) (string, error) {
	id := uuid.NewString()

	attrs, err := json.Marshal(resp.Attributes)
	if err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}
	transfers, err := json.Marshal(resp.Transfers)
	if err != nil {
		return "", fmt.Errorf("encode transfers: %w", err)
	}

	_, err = l.db.Exec(
		`INSERT INTO commands (id, action, sender, attributes, transfers, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, action, sender, string(attrs), string(transfers), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert audit row: %w", err)
	}
	return id, nil
}

// Entries returns all recorded commands in insertion order.
func (l *Log) Entries() ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, action, sender, attributes, transfers, created_at FROM commands ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query audit rows: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var attrs, transfers string
		if err := rows.Scan(&e.ID, &e.Action, &e.Sender, &attrs, &transfers, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &e.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(transfers), &e.Transfers); err != nil {
			return nil, fmt.Errorf("decode transfers for %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
