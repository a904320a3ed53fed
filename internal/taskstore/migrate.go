package taskstore

import "github.com/dori/flatmatrix/internal/model"

// SnoozeTask pushes a single task from the current date to the next day:
// removed from today's list, appended to tomorrow's bucket. Completed tasks
// may be snoozed like any other. Unknown ids are no-ops.
func (s *Store) SnoozeTask(taskID string) error {
	var task model.Task
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			task = s.tasks[i]
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	tomorrow := NextDay(s.currentDate)
	tomorrowTasks, err := s.db.LoadBucket(tomorrow)
	if err != nil {
		return err
	}
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}

	// Both days commit together; a failed write cannot leave the task in
	// today's bucket and tomorrow's at once.
	err = s.db.SaveBuckets(map[string][]model.Task{
		s.currentDate: s.tasks,
		tomorrow:      append(tomorrowTasks, task),
	})
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// MigrateIncompleteTasks moves every incomplete task from one date's bucket
// to another, leaving the completed ones behind. It returns the number of
// tasks moved; zero means nothing was written at all. Migrating a date onto
// itself is a no-op. If either date is the one currently loaded, in-memory
// state is updated to match.
func (s *Store) MigrateIncompleteTasks(fromDate, toDate string) (int, error) {
	from := resolveDate(fromDate, s.now())
	to := resolveDate(toDate, s.now())
	if from == to {
		return 0, nil
	}

	source, err := s.db.LoadBucket(from)
	if err != nil {
		return 0, err
	}
	incomplete := model.Incomplete(source)
	if len(incomplete) == 0 {
		return 0, nil
	}
	remaining := model.Completed(source)

	target, err := s.db.LoadBucket(to)
	if err != nil {
		return 0, err
	}
	merged := append(target, incomplete...)

	err = s.db.SaveBuckets(map[string][]model.Task{
		from: remaining,
		to:   merged,
	})
	if err != nil {
		return 0, err
	}

	switch s.currentDate {
	case from:
		s.tasks = remaining
	case to:
		s.tasks = merged
	}
	s.notify()
	return len(incomplete), nil
}
