// Package events keeps a local append-only activity log in SQLite. Writes
// are best-effort: a failed append never fails the operation it records.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"stride/internal/domain"
)

// Event types recorded by the tracker operations.
const (
	TypeTaskCreated     = "task.created"
	TypeTaskUpdated     = "task.updated"
	TypeTaskStarted     = "task.started"
	TypeTaskCompleted   = "task.completed"
	TypeReflectionAdded = "reflection.added"
	TypeStoreReset      = "store.reset"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type Payload map[string]any

// Append records one event. A nil Writer or nil DB is a no-op, so callers
// can log unconditionally.
func (w *Writer) Append(ctx context.Context, evtType, entityKind, entityID string, payload Payload) error {
	if w == nil || w.DB == nil {
		return nil
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?)`,
		ts, evtType, entityKind, nullable(entityID), string(data))
	return err
}

// Tail returns the most recent n events, newest first.
func (w *Writer) Tail(ctx context.Context, n int) ([]domain.Event, error) {
	if w == nil || w.DB == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 20
	}
	rows, err := w.DB.QueryContext(ctx,
		`SELECT id, ts, type, entity_kind, COALESCE(entity_id,''), payload_json FROM events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
