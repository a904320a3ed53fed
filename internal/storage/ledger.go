package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dori/flatmatrix/internal/model"
)

// maxDeletedTasks caps the per-task undo ledger. Oldest entries are evicted
// once the cap is exceeded.
const maxDeletedTasks = 200

// AppendDeleted records a deleted task in the undo ledger, evicting the
// oldest entries beyond the cap.
func (db *DB) AppendDeleted(entry model.DeletedTaskEntry) error {
	payload, err := json.Marshal(entry.Task)
	if err != nil {
		return fmt.Errorf("encode deleted task: %w", err)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO deleted_tasks (task_id, payload, source_date, deleted_at)
			VALUES (?, ?, ?, ?)
		`, entry.Task.ID, payload, entry.SourceDate, entry.DeletedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM deleted_tasks WHERE seq NOT IN (
				SELECT seq FROM deleted_tasks ORDER BY seq DESC LIMIT ?
			)
		`, maxDeletedTasks)
		return err
	})
}

// ListDeleted returns ledger entries, newest deletion first. Rows whose
// snapshot no longer decodes are skipped rather than failing the listing.
func (db *DB) ListDeleted() ([]model.DeletedTaskEntry, error) {
	rows, err := db.Query(`
		SELECT payload, source_date, deleted_at FROM deleted_tasks ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list deleted tasks: %w", err)
	}
	defer rows.Close()

	var entries []model.DeletedTaskEntry
	for rows.Next() {
		var payload []byte
		var e model.DeletedTaskEntry
		if err := rows.Scan(&payload, &e.SourceDate, &e.DeletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &e.Task); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RemoveDeleted drops a single ledger entry, identified by the task id and
// deletion timestamp pair.
func (db *DB) RemoveDeleted(taskID string, deletedAt int64) error {
	_, err := db.Exec(`
		DELETE FROM deleted_tasks WHERE task_id = ? AND deleted_at = ?
	`, taskID, deletedAt)
	return err
}

// ClearDeleted empties the undo ledger.
func (db *DB) ClearDeleted() error {
	_, err := db.Exec(`DELETE FROM deleted_tasks`)
	return err
}
