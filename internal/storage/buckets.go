package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/flatmatrix/internal/model"
)

// LoadBucket returns the task list stored for date. A missing bucket and a
// malformed one both come back as an empty list; the caller cannot tell the
// difference and is not supposed to.
func (db *DB) LoadBucket(date string) ([]model.Task, error) {
	var payload []byte
	err := db.QueryRow(`SELECT payload FROM task_buckets WHERE date = ?`, date).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bucket %s: %w", date, err)
	}
	return decodeTaskList(payload), nil
}

// SaveBucket writes the full task list for date, creating the bucket if
// needed. An empty (non-nil) list is persisted as [], not removed.
func (db *DB) SaveBucket(date string, tasks []model.Task) error {
	payload, err := encodeTaskList(tasks)
	if err != nil {
		return fmt.Errorf("encode bucket %s: %w", date, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`
		INSERT INTO task_buckets (date, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, date, payload, now)
	if err != nil {
		return fmt.Errorf("save bucket %s: %w", date, err)
	}
	return nil
}

// SaveBuckets writes several buckets in one transaction. Cross-day moves use
// this so a task is never persisted in two days' buckets, or neither, when a
// write fails partway.
func (db *DB) SaveBuckets(buckets map[string][]model.Task) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return db.Transaction(func(tx *sql.Tx) error {
		for date, tasks := range buckets {
			payload, err := encodeTaskList(tasks)
			if err != nil {
				return fmt.Errorf("encode bucket %s: %w", date, err)
			}
			_, err = tx.Exec(`
				INSERT INTO task_buckets (date, payload, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
			`, date, payload, now)
			if err != nil {
				return fmt.Errorf("save bucket %s: %w", date, err)
			}
		}
		return nil
	})
}

// DeleteBucket removes the active bucket for date entirely.
func (db *DB) DeleteBucket(date string) error {
	_, err := db.Exec(`DELETE FROM task_buckets WHERE date = ?`, date)
	return err
}

// BucketExists reports whether an active bucket row exists for date, even an
// empty one.
func (db *DB) BucketExists(date string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM task_buckets WHERE date = ?`, date).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BucketSummary describes one stored date for the archive listing.
type BucketSummary struct {
	Date      string
	TaskCount int
	DoneCount int
}

// ListBuckets returns every active bucket, newest date first, with task
// counts for the archive view.
func (db *DB) ListBuckets() ([]BucketSummary, error) {
	rows, err := db.Query(`SELECT date, payload FROM task_buckets ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// LoadRecycle returns the soft-deleted snapshot for date, empty if none.
func (db *DB) LoadRecycle(date string) ([]model.Task, error) {
	var payload []byte
	err := db.QueryRow(`SELECT payload FROM recycle_buckets WHERE date = ?`, date).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recycle %s: %w", date, err)
	}
	return decodeTaskList(payload), nil
}

// SaveRecycle writes a soft-deleted snapshot for date.
func (db *DB) SaveRecycle(date string, tasks []model.Task) error {
	payload, err := encodeTaskList(tasks)
	if err != nil {
		return fmt.Errorf("encode recycle %s: %w", date, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`
		INSERT INTO recycle_buckets (date, payload, deleted_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, deleted_at = excluded.deleted_at
	`, date, payload, now)
	if err != nil {
		return fmt.Errorf("save recycle %s: %w", date, err)
	}
	return nil
}

// DeleteRecycle removes the recycle snapshot for date permanently.
func (db *DB) DeleteRecycle(date string) error {
	_, err := db.Exec(`DELETE FROM recycle_buckets WHERE date = ?`, date)
	return err
}

// RecycleExists reports whether a recycle snapshot exists for date.
func (db *DB) RecycleExists(date string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM recycle_buckets WHERE date = ?`, date).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRecycle returns every soft-deleted day, newest first.
func (db *DB) ListRecycle() ([]BucketSummary, error) {
	rows, err := db.Query(`SELECT date, payload FROM recycle_buckets ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recycle: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ClearRecycle empties the date-level recycle bin.
func (db *DB) ClearRecycle() error {
	_, err := db.Exec(`DELETE FROM recycle_buckets`)
	return err
}

func scanSummaries(rows *sql.Rows) ([]BucketSummary, error) {
	var out []BucketSummary
	for rows.Next() {
		var date string
		var payload []byte
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, err
		}
		tasks := decodeTaskList(payload)
		s := BucketSummary{Date: date, TaskCount: len(tasks)}
		for _, t := range tasks {
			if t.IsCompleted {
				s.DoneCount++
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
