package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dori/flatmatrix/internal/model"
)

// Settings keys. Date-scoped flags embed the canonical date in the key so
// each calendar day gets its own row.
const (
	preferenceKey     = "migration_preference"
	promptedKeyPrefix = "migration_prompted_"
	suppressKeyPrefix = "suppress_confirm_"

	// Legacy blobs from the pre-bucket releases.
	legacyTasksKey    = "tasks"
	legacySnapshotKey = "flat-matrix-storage"
)

// GetSetting returns a settings value and whether the key exists.
func (db *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a settings value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a settings row; missing keys are fine.
func (db *DB) DeleteSetting(key string) error {
	_, err := db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// MigrationPreference returns the remembered carry-over choice. A malformed
// stored value reads as unset.
func (db *DB) MigrationPreference() (model.MigrationPreference, error) {
	raw, ok, err := db.GetSetting(preferenceKey)
	if err != nil || !ok {
		return model.PreferenceUnset, err
	}
	var v struct {
		Action model.MigrationPreference `json:"action"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return model.PreferenceUnset, nil
	}
	if !v.Action.IsSet() {
		return model.PreferenceUnset, nil
	}
	return v.Action, nil
}

// SetMigrationPreference persists the remembered carry-over choice.
func (db *DB) SetMigrationPreference(p model.MigrationPreference) error {
	raw, err := json.Marshal(struct {
		Action model.MigrationPreference `json:"action"`
	}{Action: p})
	if err != nil {
		return err
	}
	return db.SetSetting(preferenceKey, string(raw))
}

// ClearMigrationPreference forgets the remembered carry-over choice.
func (db *DB) ClearMigrationPreference() error {
	return db.DeleteSetting(preferenceKey)
}

// MigrationPrompted reports whether the carry-over check has already been
// handled for date.
func (db *DB) MigrationPrompted(date string) (bool, error) {
	raw, ok, err := db.GetSetting(promptedKeyPrefix + date)
	if err != nil {
		return false, err
	}
	return ok && raw == "true", nil
}

// MarkMigrationPrompted records that the carry-over check for date is done.
func (db *DB) MarkMigrationPrompted(date string) error {
	return db.SetSetting(promptedKeyPrefix+date, "true")
}

// ConfirmSuppressed reports whether confirmation prompts for feature are
// suppressed on date. The flag expires by date comparison, not deletion:
// a row stamped with an earlier day simply stops matching.
func (db *DB) ConfirmSuppressed(feature, date string) (bool, error) {
	raw, ok, err := db.GetSetting(suppressKeyPrefix + feature)
	if err != nil || !ok {
		return false, err
	}
	var v struct {
		Date       string `json:"date"`
		Suppressed bool   `json:"suppressed"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, nil
	}
	return v.Suppressed && v.Date == date, nil
}

// SuppressConfirm silences confirmation prompts for feature for the given
// date only.
func (db *DB) SuppressConfirm(feature, date string) error {
	raw, err := json.Marshal(struct {
		Date       string `json:"date"`
		Suppressed bool   `json:"suppressed"`
	}{Date: date, Suppressed: true})
	if err != nil {
		return err
	}
	return db.SetSetting(suppressKeyPrefix+feature, string(raw))
}

// SeedLegacy migrates pre-bucket data into today's bucket, at most once.
// Two older layouts are recognized: a single unscoped task list under the
// "tasks" key (removed after import) and the versioned state snapshot
// (kept as-is, since other installs may still read it). Nothing happens if
// today already has a bucket.
func (db *DB) SeedLegacy(today string) error {
	exists, err := db.BucketExists(today)
	if err != nil || exists {
		return err
	}

	if raw, ok, err := db.GetSetting(legacyTasksKey); err != nil {
		return err
	} else if ok {
		if err := db.SaveBucket(today, decodeTaskList([]byte(raw))); err != nil {
			return err
		}
		return db.DeleteSetting(legacyTasksKey)
	}

	if raw, ok, err := db.GetSetting(legacySnapshotKey); err != nil {
		return err
	} else if ok {
		if tasks := decodeTaskList([]byte(raw)); len(tasks) > 0 {
			return db.SaveBucket(today, tasks)
		}
	}

	return nil
}
