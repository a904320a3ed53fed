package taskstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/flatmatrix/internal/model"
	"github.com/dori/flatmatrix/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// clockAt pins the store's clock to 09:00 on the given date.
func clockAt(date string) func() time.Time {
	day, err := time.Parse(DateFormat, date)
	if err != nil {
		panic(err)
	}
	at := day.Add(9 * time.Hour)
	return func() time.Time { return at }
}

func newStore(t *testing.T, db *storage.DB, date string, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithNow(clockAt(date))}, opts...)
	s, err := New(db, opts...)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, title string) model.Task {
	t.Helper()
	if err := s.AddTask(title, ""); err != nil {
		t.Fatalf("AddTask(%q) failed: %v", title, err)
	}
	return s.Tasks()[0]
}

func TestAddTask(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	if err := s.AddTask("  Buy milk  ", "  errands  "); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	task := tasks[0]
	if task.ID == "" {
		t.Error("task should get a generated id")
	}
	if task.Title != "Buy milk" || task.Context != "errands" {
		t.Errorf("fields not trimmed: %+v", task)
	}
	if task.QuadrantID != model.QuadrantNone {
		t.Errorf("new task should land in the backlog, got %q", task.QuadrantID)
	}
	if task.IsCompleted {
		t.Error("new task should be incomplete")
	}
	if want := clockAt("2026-01-20")().UnixMilli(); task.CreatedAt != want {
		t.Errorf("CreatedAt = %d, want %d", task.CreatedAt, want)
	}

	// Mutations hit the bucket immediately
	persisted, err := db.LoadBucket("2026-01-20")
	if err != nil {
		t.Fatalf("LoadBucket failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != task.ID {
		t.Errorf("task not persisted: %+v", persisted)
	}
}

func TestAddTaskPrepends(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	mustAdd(t, s, "first")
	mustAdd(t, s, "second")

	tasks := s.Tasks()
	if tasks[0].Title != "second" || tasks[1].Title != "first" {
		t.Errorf("newest task should come first: %+v", tasks)
	}
}

func TestAddTaskEmptyTitleIsNoOp(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	if err := s.AddTask("   ", "note"); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("blank title should add nothing: %+v", s.Tasks())
	}
}

func TestAddTaskIDsAreUnique(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		task := mustAdd(t, s, "task")
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestUpdateTaskQuadrant(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	task := mustAdd(t, s, "plan sprint")

	if err := s.UpdateTaskQuadrant(task.ID, model.QuadrantSchedule); err != nil {
		t.Fatalf("UpdateTaskQuadrant failed: %v", err)
	}
	if got := s.Tasks()[0].QuadrantID; got != model.QuadrantSchedule {
		t.Errorf("quadrant = %q, want q2", got)
	}

	// Invalid quadrant keeps the previous assignment
	if err := s.UpdateTaskQuadrant(task.ID, model.Quadrant("q9")); err != nil {
		t.Fatalf("UpdateTaskQuadrant failed: %v", err)
	}
	if got := s.Tasks()[0].QuadrantID; got != model.QuadrantSchedule {
		t.Errorf("invalid quadrant should be ignored, got %q", got)
	}

	// Back to the backlog
	if err := s.UpdateTaskQuadrant(task.ID, model.QuadrantNone); err != nil {
		t.Fatalf("UpdateTaskQuadrant failed: %v", err)
	}
	if got := s.Tasks()[0].QuadrantID; got != model.QuadrantNone {
		t.Errorf("quadrant = %q, want backlog", got)
	}

	if err := s.UpdateTaskQuadrant("no-such-id", model.QuadrantDoFirst); err != nil {
		t.Fatalf("unknown id should be a no-op, got error: %v", err)
	}
}

func TestToggleTaskCompletion(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	task := mustAdd(t, s, "write report")

	if err := s.ToggleTaskCompletion(task.ID); err != nil {
		t.Fatalf("ToggleTaskCompletion failed: %v", err)
	}
	if !s.Tasks()[0].IsCompleted {
		t.Error("task should be completed after toggle")
	}
	if err := s.ToggleTaskCompletion(task.ID); err != nil {
		t.Fatalf("ToggleTaskCompletion failed: %v", err)
	}
	if s.Tasks()[0].IsCompleted {
		t.Error("task should be incomplete after second toggle")
	}
}

func TestUpdateTaskDetails(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	task := mustAdd(t, s, "old title")

	if err := s.UpdateTaskDetails(task.ID, " new title ", " new note "); err != nil {
		t.Fatalf("UpdateTaskDetails failed: %v", err)
	}
	got := s.Tasks()[0]
	if got.Title != "new title" || got.Context != "new note" {
		t.Errorf("edit not applied: %+v", got)
	}

	// Blank title rejects the whole edit
	if err := s.UpdateTaskDetails(task.ID, "  ", "changed"); err != nil {
		t.Fatalf("UpdateTaskDetails failed: %v", err)
	}
	got = s.Tasks()[0]
	if got.Title != "new title" || got.Context != "new note" {
		t.Errorf("blank-title edit should change nothing: %+v", got)
	}
}

func TestImportTasksPrepends(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	existing := mustAdd(t, s, "existing")

	imported := []model.Task{
		{ID: "imp-1", Title: "one", CreatedAt: 1},
		{ID: "imp-2", Title: "two", CreatedAt: 2},
	}
	if err := s.ImportTasks(imported); err != nil {
		t.Fatalf("ImportTasks failed: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if tasks[0].ID != "imp-1" || tasks[1].ID != "imp-2" || tasks[2].ID != existing.ID {
		t.Errorf("imported tasks should lead in order: %+v", tasks)
	}
}

func TestClearAllTasksKeepsBucketKey(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	mustAdd(t, s, "one")
	mustAdd(t, s, "two")

	if err := s.ClearAllTasks(); err != nil {
		t.Fatalf("ClearAllTasks failed: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("list should be empty: %+v", s.Tasks())
	}

	// Clearing writes an empty list; the date's bucket still exists.
	exists, err := db.BucketExists("2026-01-20")
	if err != nil {
		t.Fatalf("BucketExists failed: %v", err)
	}
	if !exists {
		t.Error("cleared bucket should remain as an explicit empty list")
	}
}

func TestLoadTasksByDate(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")
	task := mustAdd(t, s, "today's task")

	if err := s.LoadTasksByDate("2026-01-25"); err != nil {
		t.Fatalf("LoadTasksByDate failed: %v", err)
	}
	if s.CurrentDate() != "2026-01-25" {
		t.Errorf("current date = %s, want 2026-01-25", s.CurrentDate())
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("fresh date should be empty: %+v", s.Tasks())
	}

	if err := s.LoadTasksByDate("2026-01-20"); err != nil {
		t.Fatalf("LoadTasksByDate failed: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("original date's tasks lost: %+v", tasks)
	}
}

func TestLoadTasksByDateInvalidFallsBackToToday(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	if err := s.LoadTasksByDate("not-a-date"); err != nil {
		t.Fatalf("LoadTasksByDate failed: %v", err)
	}
	if s.CurrentDate() != "2026-01-20" {
		t.Errorf("invalid input should resolve to today, got %s", s.CurrentDate())
	}
}

func TestLoadTasksByDateCancelsUndoToast(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20", WithUndoWindow(time.Hour))
	task := mustAdd(t, s, "doomed")

	if err := s.PerformTaskDelete(task.ID); err != nil {
		t.Fatalf("PerformTaskDelete failed: %v", err)
	}
	if s.PendingUndo() == nil {
		t.Fatal("undo toast should be live")
	}

	if err := s.LoadTasksByDate("2026-01-21"); err != nil {
		t.Fatalf("LoadTasksByDate failed: %v", err)
	}
	if s.PendingUndo() != nil {
		t.Error("toast should not survive a date switch")
	}

	// The ledger entry does survive
	entries, err := s.DeletedEntries()
	if err != nil {
		t.Fatalf("DeletedEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Task.ID != task.ID {
		t.Errorf("ledger should keep the deletion: %+v", entries)
	}
}

// seedMixed lays out a list spanning the backlog and two quadrants:
//
//	index 0: b1 (backlog)   index 3: s1 (q2)
//	index 1: d1 (q1)        index 4: d3 (q1)
//	index 2: d2 (q1)
func seedMixed(t *testing.T, db *storage.DB) []model.Task {
	t.Helper()
	tasks := []model.Task{
		{ID: "b1", Title: "backlog", CreatedAt: 1},
		{ID: "d1", Title: "do 1", QuadrantID: model.QuadrantDoFirst, CreatedAt: 2},
		{ID: "d2", Title: "do 2", QuadrantID: model.QuadrantDoFirst, CreatedAt: 3},
		{ID: "s1", Title: "sched", QuadrantID: model.QuadrantSchedule, CreatedAt: 4},
		{ID: "d3", Title: "do 3", QuadrantID: model.QuadrantDoFirst, CreatedAt: 5},
	}
	if err := db.SaveBucket("2026-01-20", tasks); err != nil {
		t.Fatalf("SaveBucket failed: %v", err)
	}
	return tasks
}

func idsOf(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestReorderTaskWithinQuadrant(t *testing.T) {
	db := openDB(t)
	seedMixed(t, db)
	s := newStore(t, db, "2026-01-20")

	// Move d3 (index 2 inside q1) to the front of q1.
	if err := s.ReorderTask("d3", 2, 0); err != nil {
		t.Fatalf("ReorderTask failed: %v", err)
	}

	got := idsOf(s.Tasks())
	want := []string{"b1", "d3", "d1", "s1", "d2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list order = %v, want %v", got, want)
		}
	}

	// Other partitions kept their exact list positions
	if got[0] != "b1" || got[3] != "s1" {
		t.Errorf("tasks outside the reordered quadrant moved: %v", got)
	}
}

func TestReorderTaskNoOps(t *testing.T) {
	db := openDB(t)
	before := seedMixed(t, db)
	s := newStore(t, db, "2026-01-20")

	cases := []struct {
		name     string
		id       string
		from, to int
	}{
		{"same index", "d1", 0, 0},
		{"from out of range", "d1", 5, 0},
		{"to out of range", "d1", 0, 5},
		{"negative", "d1", -1, 0},
		{"index does not match task", "d1", 1, 0}, // index 1 in q1 is d2
		{"unknown id", "nope", 0, 1},
	}
	for _, tc := range cases {
		if err := s.ReorderTask(tc.id, tc.from, tc.to); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		got := idsOf(s.Tasks())
		for i, task := range before {
			if got[i] != task.ID {
				t.Errorf("%s: list changed: %v", tc.name, got)
				break
			}
		}
	}
}

func TestTasksInQuadrant(t *testing.T) {
	db := openDB(t)
	seedMixed(t, db)
	s := newStore(t, db, "2026-01-20")

	q1 := idsOf(s.TasksInQuadrant(model.QuadrantDoFirst))
	if len(q1) != 3 || q1[0] != "d1" || q1[1] != "d2" || q1[2] != "d3" {
		t.Errorf("q1 = %v", q1)
	}
	backlog := idsOf(s.TasksInQuadrant(model.QuadrantNone))
	if len(backlog) != 1 || backlog[0] != "b1" {
		t.Errorf("backlog = %v", backlog)
	}
}

func TestSubscribeNotifies(t *testing.T) {
	db := openDB(t)
	s := newStore(t, db, "2026-01-20")

	fired := 0
	cancel := s.Subscribe(func() { fired++ })

	mustAdd(t, s, "one")
	if fired != 1 {
		t.Errorf("subscriber fired %d times, want 1", fired)
	}

	cancel()
	mustAdd(t, s, "two")
	if fired != 1 {
		t.Errorf("cancelled subscriber still fired: %d", fired)
	}
}

func TestConfirmSuppressionScopedToDay(t *testing.T) {
	db := openDB(t)

	current := clockAt("2026-01-20")()
	s, err := New(db, WithNow(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}

	if err := s.SuppressConfirm(FeatureDeleteTask); err != nil {
		t.Fatalf("SuppressConfirm failed: %v", err)
	}
	suppressed, err := s.ConfirmSuppressed(FeatureDeleteTask)
	if err != nil || !suppressed {
		t.Errorf("same-day suppression = (%v, %v), want true", suppressed, err)
	}

	// Advance the wall clock to the next day
	current = current.AddDate(0, 0, 1)
	suppressed, err = s.ConfirmSuppressed(FeatureDeleteTask)
	if err != nil || suppressed {
		t.Errorf("suppression should expire overnight, got (%v, %v)", suppressed, err)
	}
}
