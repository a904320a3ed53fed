package model

import (
	"strings"
	"time"
)

// Quadrant identifies one cell of the Eisenhower matrix. The zero value
// (QuadrantNone) means the task is still in the backlog.
type Quadrant string

const (
	QuadrantNone      Quadrant = ""
	QuadrantDoFirst   Quadrant = "q1" // urgent + important
	QuadrantSchedule  Quadrant = "q2" // important, not urgent
	QuadrantDelegate  Quadrant = "q3" // urgent, not important
	QuadrantEliminate Quadrant = "q4" // neither
)

// Quadrants lists the four matrix quadrants in display order.
var Quadrants = []Quadrant{QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate}

// IsValid reports whether q names an actual quadrant (not the backlog).
func (q Quadrant) IsValid() bool {
	switch q {
	case QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate:
		return true
	}
	return false
}

// Label returns the conventional Eisenhower label for the quadrant.
func (q Quadrant) Label() string {
	switch q {
	case QuadrantDoFirst:
		return "Do First"
	case QuadrantSchedule:
		return "Schedule"
	case QuadrantDelegate:
		return "Delegate"
	case QuadrantEliminate:
		return "Eliminate"
	}
	return "Backlog"
}

// Task is one item in a date's task list. JSON tags match the browser-era
// export format so old data files decode without translation: quadrantId may
// arrive as null (decoded as the empty string) and context is absent rather
// than empty when blank.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Context     string   `json:"context,omitempty"`
	QuadrantID  Quadrant `json:"quadrantId"`
	IsCompleted bool     `json:"isCompleted"`
	CreatedAt   int64    `json:"createdAt"` // epoch millis
}

// CreatedTime returns the creation timestamp as a time.Time.
func (t Task) CreatedTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// NormalizeContext trims the context note and drops it entirely when blank.
func NormalizeContext(context string) string {
	return strings.TrimSpace(context)
}

// Incomplete filters tasks down to those not yet completed, preserving order.
func Incomplete(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Completed filters tasks down to finished ones, preserving order.
func Completed(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}
