package taskstore

import (
	"time"

	"github.com/dori/flatmatrix/internal/model"
)

// PerformTaskDelete snapshots a task into the undo ledger, hard-deletes it
// from the current date's list and arms the undo toast. Only one toast is
// live at a time: deleting again before the window closes replaces it, and
// the first task stays reachable through the full ledger view. Unknown ids
// are no-ops.
func (s *Store) PerformTaskDelete(taskID string) error {
	var task model.Task
	found := false
	for _, t := range s.tasks {
		if t.ID == taskID {
			task = t
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	entry := model.DeletedTaskEntry{
		Task:       task,
		SourceDate: s.currentDate,
		DeletedAt:  s.now().UnixMilli(),
	}
	if err := s.db.AppendDeleted(entry); err != nil {
		return err
	}
	if err := s.DeleteTask(taskID); err != nil {
		return err
	}

	s.armUndoToast(entry)
	return nil
}

func (s *Store) armUndoToast(entry model.DeletedTaskEntry) {
	s.undoMu.Lock()
	if s.undoTimer != nil {
		s.undoTimer.Stop()
	}
	s.pendingUndo = &entry
	s.undoTimer = time.AfterFunc(s.undoWindow, func() {
		s.expireUndoToast(entry)
	})
	s.undoMu.Unlock()
}

// expireUndoToast runs on the timer goroutine when the window closes.
func (s *Store) expireUndoToast(entry model.DeletedTaskEntry) {
	s.undoMu.Lock()
	expired := s.pendingUndo != nil && s.pendingUndo.Matches(entry)
	if expired {
		s.pendingUndo = nil
		s.undoTimer = nil
	}
	s.undoMu.Unlock()

	if expired {
		s.notify()
	}
}

// clearUndoToast drops the live toast without touching the ledger (date
// navigation, restore-through-ledger).
func (s *Store) clearUndoToast() {
	s.undoMu.Lock()
	if s.undoTimer != nil {
		s.undoTimer.Stop()
		s.undoTimer = nil
	}
	s.pendingUndo = nil
	s.undoMu.Unlock()
}

// clearUndoToastIf drops the toast only when it refers to entry.
func (s *Store) clearUndoToastIf(entry model.DeletedTaskEntry) {
	s.undoMu.Lock()
	if s.pendingUndo != nil && s.pendingUndo.Matches(entry) {
		if s.undoTimer != nil {
			s.undoTimer.Stop()
			s.undoTimer = nil
		}
		s.pendingUndo = nil
	}
	s.undoMu.Unlock()
}

// PendingUndo returns the deletion whose undo window is still open, or nil.
func (s *Store) PendingUndo() *model.DeletedTaskEntry {
	s.undoMu.Lock()
	defer s.undoMu.Unlock()
	if s.pendingUndo == nil {
		return nil
	}
	entry := *s.pendingUndo
	return &entry
}

// UndoDelete restores the most recent deletion while its window is open.
// After expiry it is a no-op; the task remains in the ledger.
func (s *Store) UndoDelete() error {
	s.undoMu.Lock()
	entry := s.pendingUndo
	if entry != nil {
		if s.undoTimer != nil {
			s.undoTimer.Stop()
			s.undoTimer = nil
		}
		s.pendingUndo = nil
	}
	s.undoMu.Unlock()

	if entry == nil {
		return nil
	}
	return s.RestoreDeletedEntry(*entry)
}

// DeletedEntries returns the full undo ledger, newest deletion first.
func (s *Store) DeletedEntries() ([]model.DeletedTaskEntry, error) {
	return s.db.ListDeleted()
}

// RestoreDeletedEntry removes entry from the ledger and re-inserts its task
// into the source date's bucket (or the in-memory list when that date is
// loaded). If a task with the same id already exists at the destination the
// insert is skipped, but the ledger entry is still consumed.
func (s *Store) RestoreDeletedEntry(entry model.DeletedTaskEntry) error {
	if err := s.db.RemoveDeleted(entry.Task.ID, entry.DeletedAt); err != nil {
		return err
	}
	s.clearUndoToastIf(entry)

	if entry.SourceDate == s.currentDate {
		for _, t := range s.tasks {
			if t.ID == entry.Task.ID {
				s.notify()
				return nil
			}
		}
		return s.ImportTasks([]model.Task{entry.Task})
	}

	existing, err := s.db.LoadBucket(entry.SourceDate)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.ID == entry.Task.ID {
			s.notify()
			return nil
		}
	}
	if err := s.db.SaveBucket(entry.SourceDate, append([]model.Task{entry.Task}, existing...)); err != nil {
		return err
	}
	s.notify()
	return nil
}

// RemoveDeletedEntry drops a ledger entry without restoring anything.
func (s *Store) RemoveDeletedEntry(entry model.DeletedTaskEntry) error {
	if err := s.db.RemoveDeleted(entry.Task.ID, entry.DeletedAt); err != nil {
		return err
	}
	s.clearUndoToastIf(entry)
	s.notify()
	return nil
}

// ClearDeletedEntries empties the undo ledger.
func (s *Store) ClearDeletedEntries() error {
	if err := s.db.ClearDeleted(); err != nil {
		return err
	}
	s.clearUndoToast()
	s.notify()
	return nil
}
