package taskstore

// Feature keys for per-day confirmation suppression.
const (
	FeatureDeleteTask  = "delete_task"
	FeatureMigrateTask = "migrate_task"
)

// ConfirmSuppressed reports whether confirmation prompts for feature were
// suppressed today. The flag is stamped with the day it was set and expires
// by date comparison, so yesterday's "don't ask again" does not leak into
// today.
func (s *Store) ConfirmSuppressed(feature string) (bool, error) {
	return s.db.ConfirmSuppressed(feature, s.today())
}

// SuppressConfirm silences confirmation prompts for feature for the rest of
// today only.
func (s *Store) SuppressConfirm(feature string) error {
	return s.db.SuppressConfirm(feature, s.today())
}
