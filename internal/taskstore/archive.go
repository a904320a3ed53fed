package taskstore

import "github.com/dori/flatmatrix/internal/storage"

// SoftDeleteArchive moves an entire date's task list into the recycle bin:
// the active bucket is snapshotted under the recycle key and then removed.
// If the deleted date is currently loaded its in-memory list is cleared.
// Dates with no active bucket are no-ops.
func (s *Store) SoftDeleteArchive(date string) error {
	target := resolveDate(date, s.now())

	exists, err := s.db.BucketExists(target)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	tasks, err := s.db.LoadBucket(target)
	if err != nil {
		return err
	}
	if err := s.db.SaveRecycle(target, tasks); err != nil {
		return err
	}
	if err := s.db.DeleteBucket(target); err != nil {
		return err
	}

	if s.currentDate == target {
		s.tasks = nil
	}
	s.notify()
	return nil
}

// RestoreArchive is the inverse of SoftDeleteArchive: the recycle snapshot
// becomes the active bucket again and the recycle entry is removed.
func (s *Store) RestoreArchive(date string) error {
	target := resolveDate(date, s.now())

	exists, err := s.db.RecycleExists(target)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	tasks, err := s.db.LoadRecycle(target)
	if err != nil {
		return err
	}
	if err := s.db.SaveBucket(target, tasks); err != nil {
		return err
	}
	if err := s.db.DeleteRecycle(target); err != nil {
		return err
	}

	if s.currentDate == target {
		s.tasks = tasks
	}
	s.notify()
	return nil
}

// PermanentlyDeleteArchive drops a recycle snapshot for good.
func (s *Store) PermanentlyDeleteArchive(date string) error {
	if err := s.db.DeleteRecycle(resolveDate(date, s.now())); err != nil {
		return err
	}
	s.notify()
	return nil
}

// EmptyRecycleBin drops every soft-deleted day at once.
func (s *Store) EmptyRecycleBin() error {
	if err := s.db.ClearRecycle(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// ArchiveDates lists every stored date with task counts, newest first.
func (s *Store) ArchiveDates() ([]storage.BucketSummary, error) {
	return s.db.ListBuckets()
}

// RecycleDates lists every soft-deleted date, newest first.
func (s *Store) RecycleDates() ([]storage.BucketSummary, error) {
	return s.db.ListRecycle()
}
