package taskstore

import (
	"testing"
	"time"

	"github.com/dori/flatmatrix/internal/model"
)

func TestDeleteThenUndoRestoresExactTask(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	task := mustAdd(t, s, "precious")
	if err := s.UpdateTaskQuadrant(task.ID, model.QuadrantDoFirst); err != nil {
		t.Fatalf("UpdateTaskQuadrant failed: %v", err)
	}
	task = s.Tasks()[0]

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Fatalf("task still present: %+v", s.Tasks())
	}

	pending := s.PendingUndo()
	if pending == nil || pending.Task.ID != task.ID {
		t.Fatalf("undo toast = %+v, want the deleted task", pending)
	}

	if err := s.UndoDelete(); err != nil {
		t.Fatalf("UndoDelete failed: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0] != task {
		t.Errorf("restored task differs: %+v != %+v", tasks, task)
	}
	if s.PendingUndo() != nil {
		t.Error("toast should clear after undo")
	}
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("undo should consume the ledger entry: %+v", entries)
	}
}

func TestUndoAfterWindowExpires(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(10*time.Millisecond))
	task := mustAdd(t, s, "slow to regret")

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.PendingUndo() != nil {
		if time.Now().After(deadline) {
			t.Fatal("undo toast never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.UndoDelete(); err != nil {
		t.Fatalf("UndoDelete failed: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("expired undo should restore nothing: %+v", s.Tasks())
	}

	// The task is still reachable through the ledger
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Task.ID != task.ID {
		t.Errorf("ledger = %+v, want the expired deletion", entries)
	}
}

func TestSecondDeleteReplacesToast(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	first := mustAdd(t, s, "first")
	second := mustAdd(t, s, "second")

	if err := s.PerformTaskDelete(first.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	if err := s.PerformTaskDelete(second.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}

	pending := s.PendingUndo()
	if pending == nil || pending.Task.ID != second.ID {
		t.Fatalf("toast = %+v, want the later deletion", pending)
	}

	if err := s.UndoDelete(); err != nil {
		t.Fatalf("UndoDelete failed: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != second.ID {
		t.Errorf("undo restored the wrong task: %+v", tasks)
	}

	// The first deletion stays in the ledger
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Task.ID != first.ID {
		t.Errorf("ledger = %+v, want the earlier deletion", entries)
	}
}

func TestRestoreDeletedEntrySkipsDuplicates(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	task := mustAdd(t, s, "twice over")

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	// The same id reappears before the restore (say, via carry-over)
	if err := s.ImportTasks([]model.Task{task}); err != nil {
		t.Fatalf("ImportTasks failed: %v", err)
	}

	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger = %+v", entries)
	}
	if err := s.RestoreDeletedEntry(entries[0]); err != nil {
		t.Fatalf("RestoreDeletedEntry failed: %v", err)
	}

	if len(s.Tasks()) != 1 {
		t.Errorf("restore should not duplicate the task: %+v", s.Tasks())
	}
	entries, _ = s.DeletedEntries()
	if len(entries) != 0 {
		t.Errorf("ledger entry should be consumed regardless: %+v", entries)
	}
}

func TestRestoreDeletedEntryToOtherDate(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	task := mustAdd(t, s, "wandering")

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	if err := s.LoadTasksByDate("2026-01-25"); err != nil {
		t.Fatalf("LoadTasksByDate failed: %v", err)
	}

	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger = %+v", entries)
	}
	if err := s.RestoreDeletedEntry(entries[0]); err != nil {
		t.Fatalf("RestoreDeletedEntry failed: %v", err)
	}

	// The task goes home to its source date, not the loaded one
	if len(s.Tasks()) != 0 {
		t.Errorf("loaded date should stay empty: %+v", s.Tasks())
	}
	source, err := db.LoadBucket("2026-01-20")
	if err != nil {
		t.Fatalf("LoadBucket failed: %v", err)
	}
	if len(source) != 1 || source[0].ID != task.ID {
		t.Errorf("source bucket = %+v", source)
	}
}

func TestRemoveDeletedEntry(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	task := mustAdd(t, s, "gone for good")

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if err := s.RemoveDeletedEntry(entries[0]); err != nil {
		t.Fatalf("RemoveDeletedEntry failed: %v", err)
	}

	if s.PendingUndo() != nil {
		t.Error("removing the ledger entry should drop its toast")
	}
	entries, _ = s.DeletedEntries()
	if len(entries) != 0 {
		t.Errorf("ledger = %+v, want empty", entries)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("nothing should be restored: %+v", s.Tasks())
	}
}

func TestClearDeletedEntries(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	for _, title := range []string{"one", "two", "three"} {
		task := mustAdd(t, s, title)
		if err := s.PerformTaskDelete(task.ID); err != nil {
			t.Fatalf("PerformTaskDelete failed: %v", err)
		}
	}

	if err := s.ClearDeletedEntries(); err != nil {
		t.Fatalf("ClearDeletedEntries failed: %v", err)
	}
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ledger = %+v, want empty", entries)
	}
	if s.PendingUndo() != nil {
		t.Error("clearing the ledger should drop the toast")
	}
}
