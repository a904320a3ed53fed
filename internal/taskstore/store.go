// Package taskstore implements the per-date task store of the planner: the
// current day's in-memory task list, its persisted date-keyed mirror, the
// carry-over state machine for day rollovers, the date-level recycle bin and
// the per-task undo ledger.
//
// Operations follow the "never fail for ordinary user mistakes" contract:
// empty titles, unknown task ids and out-of-range reorder indices are silent
// no-ops. Errors are reserved for the storage boundary.
//
// The store is meant to be driven from a single goroutine (the UI event
// loop). The one exception is the undo-expiry timer, which fires on its own
// goroutine; the pending-undo slot is guarded accordingly.
package taskstore

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dori/flatmatrix/internal/model"
	"github.com/dori/flatmatrix/internal/storage"
)

// DefaultUndoWindow is how long the undo affordance stays live after a
// per-task delete.
const DefaultUndoWindow = 8 * time.Second

// Store is the daily task store. Construct one per application root with
// New and share it with every surface that reads or mutates tasks.
type Store struct {
	db         *storage.DB
	now        func() time.Time
	undoWindow time.Duration

	currentDate string
	tasks       []model.Task

	// Carry-over state (see carryover.go). carryChecked is the same-session
	// fast path; the persisted prompt flag is the source of truth.
	carryChecked map[string]bool
	pendingCarry []model.Task

	undoMu      sync.Mutex
	pendingUndo *model.DeletedTaskEntry
	undoTimer   *time.Timer

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithNow injects the clock. Tests use this to pin "today".
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithUndoWindow overrides the undo-toast lifetime.
func WithUndoWindow(d time.Duration) Option {
	return func(s *Store) { s.undoWindow = d }
}

// New builds a store bound to db, seeds today's bucket from any legacy
// single-list data, and loads today's task list.
func New(db *storage.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:           db,
		now:          time.Now,
		undoWindow:   DefaultUndoWindow,
		carryChecked: make(map[string]bool),
		subs:         make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}

	today := resolveDate("", s.now())
	if err := db.SeedLegacy(today); err != nil {
		return nil, err
	}

	tasks, err := db.LoadBucket(today)
	if err != nil {
		return nil, err
	}
	s.currentDate = today
	s.tasks = tasks
	return s, nil
}

// Subscribe registers fn to run after every state change and returns a
// cancel function. Callbacks may fire from the undo-timer goroutine.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// CurrentDate returns the canonical date whose task list is loaded.
func (s *Store) CurrentDate() string {
	return s.currentDate
}

// Tasks returns a copy of the current date's task list in display order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksInQuadrant returns the current tasks belonging to q, in list order.
// QuadrantNone selects the backlog.
func (s *Store) TasksInQuadrant(q model.Quadrant) []model.Task {
	var out []model.Task
	for _, t := range s.tasks {
		if t.QuadrantID == q {
			out = append(out, t)
		}
	}
	return out
}

// today resolves the wall-clock date, independent of the loaded date.
func (s *Store) today() string {
	return resolveDate("", s.now())
}

// persist mirrors the in-memory list to the current date's bucket. Every
// mutation calls this immediately; there is no separate save step.
func (s *Store) persist() error {
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	if err := s.db.SaveBucket(s.currentDate, s.tasks); err != nil {
		return err
	}
	s.notify()
	return nil
}

// AddTask creates a task in the backlog of the current date. A title that is
// empty after trimming is a silent no-op.
func (s *Store) AddTask(title, context string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	task := model.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Context:   model.NormalizeContext(context),
		CreatedAt: s.now().UnixMilli(),
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	return s.persist()
}

// UpdateTaskQuadrant reassigns a task to quadrant q, or back to the backlog
// with QuadrantNone. Unknown ids and invalid quadrants are no-ops.
func (s *Store) UpdateTaskQuadrant(taskID string, q model.Quadrant) error {
	if q != model.QuadrantNone && !q.IsValid() {
		return nil
	}
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].QuadrantID = q
			return s.persist()
		}
	}
	return nil
}

// ToggleTaskCompletion flips a task's completion state.
func (s *Store) ToggleTaskCompletion(taskID string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
			return s.persist()
		}
	}
	return nil
}

// UpdateTaskDetails edits a task's title and context. An empty trimmed title
// rejects the whole edit (the UI reverts in place instead of alerting).
func (s *Store) UpdateTaskDetails(taskID, title, context string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].Title = title
			s.tasks[i].Context = model.NormalizeContext(context)
			return s.persist()
		}
	}
	return nil
}

// DeleteTask hard-removes a task from the current date's list. Callers that
// want undo must snapshot into the ledger first; PerformTaskDelete does both.
func (s *Store) DeleteTask(taskID string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// ImportTasks prepends externally supplied tasks (carry-over, restore) to
// the current list. It does not deduplicate; callers ensure id safety.
func (s *Store) ImportTasks(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	merged := make([]model.Task, 0, len(tasks)+len(s.tasks))
	merged = append(merged, tasks...)
	merged = append(merged, s.tasks...)
	s.tasks = merged
	return s.persist()
}

// ClearAllTasks empties the current date's list, persisting an explicit
// empty list rather than deleting the bucket.
func (s *Store) ClearAllTasks() error {
	s.tasks = []model.Task{}
	return s.persist()
}

// LoadTasksByDate switches the store to another date. The outgoing date's
// list is defensively re-saved first, and date-scoped UI state (a pending
// carry-over prompt, the live undo toast) is cancelled; persisted data is
// never lost at this boundary.
func (s *Store) LoadTasksByDate(date string) error {
	next := resolveDate(date, s.now())

	if s.currentDate != "" {
		if err := s.db.SaveBucket(s.currentDate, s.tasks); err != nil {
			return err
		}
	}

	tasks, err := s.db.LoadBucket(next)
	if err != nil {
		return err
	}

	s.pendingCarry = nil
	s.clearUndoToast()

	s.currentDate = next
	s.tasks = tasks
	s.notify()
	return nil
}

// ReorderTask moves the task from oldIndex to newIndex within its own
// quadrant partition (backlog included). Indices are positions inside that
// partition, not the full list. Out-of-range or equal indices, or an
// oldIndex that does not point at the task, are no-ops. Tasks in every
// other quadrant keep their exact list positions.
func (s *Store) ReorderTask(taskID string, oldIndex, newIndex int) error {
	var target *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			target = &s.tasks[i]
			break
		}
	}
	if target == nil {
		return nil
	}
	quadrant := target.QuadrantID

	// Positions in the full list belonging to this partition.
	var positions []int
	var subset []model.Task
	for i, t := range s.tasks {
		if t.QuadrantID == quadrant {
			positions = append(positions, i)
			subset = append(subset, t)
		}
	}

	if oldIndex == newIndex ||
		oldIndex < 0 || oldIndex >= len(subset) ||
		newIndex < 0 || newIndex >= len(subset) ||
		subset[oldIndex].ID != taskID {
		return nil
	}

	moved := subset[oldIndex]
	subset = append(subset[:oldIndex], subset[oldIndex+1:]...)
	subset = append(subset[:newIndex], append([]model.Task{moved}, subset[newIndex:]...)...)

	// Write the reordered subset back into the partition's original slots.
	for i, pos := range positions {
		s.tasks[pos] = subset[i]
	}
	return s.persist()
}
