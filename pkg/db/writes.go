package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// WriteEntry is one converged write from the audit log.
type WriteEntry struct {
	ID        int64
	Device    string
	Object    string
	Property  string
	Value     string
	Polls     int
	Took      time.Duration
	CreatedAt time.Time
}

// WriteLog persists converged writes. It satisfies the engine's
// WriteRecorder interface.
type WriteLog struct {
	db *DB
}

// Writes returns the write audit log for this database.
func (db *DB) Writes() *WriteLog {
	return &WriteLog{db: db}
}

// RecordWrite appends one converged write to the audit log.
func (w *WriteLog) RecordWrite(ctx context.Context, t bacnet.Target, value string, polls int, took time.Duration) error {
	_, err := w.db.ExecContext(ctx, `
		INSERT INTO write_log (device, object, property, value, polls, took_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.Device, t.Object, t.Property, value, polls, took.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record write: %w", err)
	}
	return nil
}

// Recent returns the most recent audit entries, newest first.
func (w *WriteLog) Recent(ctx context.Context, limit int) ([]*WriteEntry, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT id, device, object, property, value, polls, took_ms, created_at
		FROM write_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*WriteEntry
	for rows.Next() {
		e := &WriteEntry{}
		var tookMS int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Device, &e.Object, &e.Property, &e.Value, &e.Polls, &tookMS, &createdAt); err != nil {
			return nil, err
		}
		e.Took = time.Duration(tookMS) * time.Millisecond
		e.CreatedAt, err = time.Parse(time.DateTime, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
