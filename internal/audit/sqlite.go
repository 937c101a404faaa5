package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"equiplend/adminctl/internal/action"
)

// SQLiteStore records entries in a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the audit database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS flow_audit (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		target_id TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		actor TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	if err != nil {
		return fmt.Errorf("migrate audit db: %w", err)
	}
	return nil
}

// Record implements Recorder. Assigns id and timestamp when unset.
func (s *SQLiteStore) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO flow_audit (id, action, target_id, summary, actor, outcome, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Action), e.TargetID, e.Summary, e.Actor, string(e.Outcome), e.Message, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, target_id, summary, actor, outcome, message, created_at
		FROM flow_audit
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var kind, outcome string
		if err := rows.Scan(&e.ID, &kind, &e.TargetID, &e.Summary, &e.Actor, &outcome, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = action.Kind(kind)
		e.Outcome = Outcome(outcome)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
