package events

import (
	"context"
	"testing"
	"time"

	"stride/internal/db"
	"stride/internal/migrate"
)

func newWriter(t *testing.T) *Writer {
	t.Helper()
	conn, err := db.Open(db.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Writer{DB: conn, Now: func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestAppendAndTail(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	if err := w.Append(ctx, TypeTaskCreated, "task", "1", Payload{"title": "Ship v2"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(ctx, TypeTaskStarted, "task", "1", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := w.Tail(ctx, 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != TypeTaskStarted || got[1].Type != TypeTaskCreated {
		t.Fatalf("expected newest first: %+v", got)
	}
	if got[0].TS != "2025-06-01T12:00:00Z" {
		t.Fatalf("timestamp: %q", got[0].TS)
	}
}

func TestTailLimit(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := w.Append(ctx, TypeTaskUpdated, "task", "1", nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := w.Tail(ctx, 3)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("limit ignored: %d", len(got))
	}
}

func TestNilWriterIsNoOp(t *testing.T) {
	var w *Writer
	if err := w.Append(context.Background(), TypeStoreReset, "store", "", nil); err != nil {
		t.Fatalf("nil writer should no-op: %v", err)
	}
}
