package housekeeping

import "encoding/json"

// Task is the envelope the catalog pushes onto the housekeeping queue when
// a skill is unpublished or republished.
type Task struct {
	Name     string `json:"task"`
	ID       string `json:"task_id"`
	original []byte
}

func TaskInto[T any](task *Task) (*T, error) {
	var v T
	err := json.Unmarshal(task.original, &v)
	return &v, err
}

type PurgeBundleTask struct {
	Name    string `json:"task,omitempty"`
	ID      string `json:"task_id,omitempty"`
	SkillID int64  `json:"skill_id,omitempty"`
}

type PurgeAllTask struct {
	Name string `json:"task,omitempty"`
	ID   string `json:"task_id,omitempty"`
}
