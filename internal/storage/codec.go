package storage

import (
	"encoding/json"

	"github.com/dori/flatmatrix/internal/model"
)

// stateEnvelope is the versioned wrapper an earlier release persisted:
// {"state":{"tasks":[...]}}. Buckets written by that release, and exports
// produced from it, still carry this shape.
type stateEnvelope struct {
	State struct {
		Tasks []model.Task `json:"tasks"`
	} `json:"state"`
}

// decodeTaskList decodes a persisted task-list payload. It accepts either a
// bare JSON array or the legacy state envelope and treats anything else,
// malformed JSON included, as an empty list. It never fails: corrupt
// buckets degrade to empty rather than wedging the whole day.
func decodeTaskList(payload []byte) []model.Task {
	if len(payload) == 0 {
		return nil
	}

	var tasks []model.Task
	if err := json.Unmarshal(payload, &tasks); err == nil {
		return tasks
	}

	var env stateEnvelope
	if err := json.Unmarshal(payload, &env); err == nil && env.State.Tasks != nil {
		return env.State.Tasks
	}

	return nil
}

// encodeTaskList encodes tasks as a bare JSON array, the current on-disk
// shape. A nil slice is written as [] so an intentionally cleared bucket is
// distinguishable from a missing one.
func encodeTaskList(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}
