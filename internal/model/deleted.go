package model

// DeletedTaskEntry is one row of the per-task undo ledger: a deleted task
// together with the date bucket it came from and when it was deleted.
// It is independent of the date-level recycle bin.
type DeletedTaskEntry struct {
	Task       Task   `json:"task"`
	SourceDate string `json:"sourceDate"`
	DeletedAt  int64  `json:"deletedAt"` // epoch millis
}

// Matches reports whether other refers to the same deletion event. Task IDs
// alone are not enough: the same task can be deleted, restored and deleted
// again, producing distinct ledger entries.
func (e DeletedTaskEntry) Matches(other DeletedTaskEntry) bool {
	return e.Task.ID == other.Task.ID && e.DeletedAt == other.DeletedAt
}
