package taskstore

import "github.com/dori/flatmatrix/internal/model"

// CarryOverResult reports what the day-rollover check did for the loaded
// date. At most one of Imported/Pending is meaningful: Imported counts tasks
// brought forward automatically via a remembered preference; a non-empty
// Pending means the store is awaiting the user's choice and the caller
// should surface those tasks in a prompt, then call ResolveCarryOver.
type CarryOverResult struct {
	Imported int
	Pending  []model.Task
}

// CheckCarryOver runs the once-per-day rollover check for the currently
// loaded date: tasks left incomplete on the previous day are offered (or,
// with a remembered preference, silently imported or skipped). The persisted
// per-date prompt flag makes the check effectively-once across sessions; an
// in-memory per-date set short-circuits repeats within this session.
func (s *Store) CheckCarryOver() (CarryOverResult, error) {
	date := s.currentDate

	if s.carryChecked[date] {
		if s.pendingCarry != nil {
			return CarryOverResult{Pending: s.Pending()}, nil
		}
		return CarryOverResult{}, nil
	}
	s.carryChecked[date] = true

	prompted, err := s.db.MigrationPrompted(date)
	if err != nil {
		return CarryOverResult{}, err
	}
	if prompted {
		return CarryOverResult{}, nil
	}

	yesterday, err := s.db.LoadBucket(PrevDay(date))
	if err != nil {
		return CarryOverResult{}, err
	}
	incomplete := model.Incomplete(yesterday)
	if len(incomplete) == 0 {
		return CarryOverResult{}, s.db.MarkMigrationPrompted(date)
	}

	pref, err := s.db.MigrationPreference()
	if err != nil {
		return CarryOverResult{}, err
	}
	switch pref {
	case model.PreferenceSkip:
		return CarryOverResult{}, s.db.MarkMigrationPrompted(date)
	case model.PreferenceImport:
		if err := s.ImportTasks(incomplete); err != nil {
			return CarryOverResult{}, err
		}
		return CarryOverResult{Imported: len(incomplete)}, s.db.MarkMigrationPrompted(date)
	}

	// No preference recorded: hand the incomplete set to the caller and
	// wait for ResolveCarryOver. The prompt flag is NOT set yet; it is
	// recorded on the user's answer, whichever way it goes.
	s.pendingCarry = incomplete
	return CarryOverResult{Pending: s.Pending()}, nil
}

// Pending returns the incomplete tasks awaiting a carry-over decision, or
// nil when no prompt is outstanding.
func (s *Store) Pending() []model.Task {
	if s.pendingCarry == nil {
		return nil
	}
	out := make([]model.Task, len(s.pendingCarry))
	copy(out, s.pendingCarry)
	return out
}

// ResolveCarryOver answers an outstanding carry-over prompt. The prompt flag
// is set unconditionally: dismissing still counts as handled for the day.
// With remember set, the choice is persisted as the migration preference for
// future dates. Confirm imports the pending tasks. A call with no prompt
// outstanding is a no-op.
func (s *Store) ResolveCarryOver(confirm, remember bool) error {
	if s.pendingCarry == nil {
		return nil
	}
	pending := s.pendingCarry
	s.pendingCarry = nil

	if remember {
		pref := model.PreferenceSkip
		if confirm {
			pref = model.PreferenceImport
		}
		if err := s.db.SetMigrationPreference(pref); err != nil {
			return err
		}
	}

	if err := s.db.MarkMigrationPrompted(s.currentDate); err != nil {
		return err
	}

	if confirm {
		return s.ImportTasks(pending)
	}
	s.notify()
	return nil
}

// Preference returns the remembered carry-over choice.
func (s *Store) Preference() (model.MigrationPreference, error) {
	return s.db.MigrationPreference()
}

// ClearPreference forgets the remembered carry-over choice so future dates
// prompt again.
func (s *Store) ClearPreference() error {
	return s.db.ClearMigrationPreference()
}
