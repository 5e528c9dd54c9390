package models

import (
	"fmt"
	"time"
)

// TaskState is the lifecycle state of a task. It is persisted and serialized
// as its canonical string form.
type TaskState string

const (
	StateDraft TaskState = "draft"
	StateTodo  TaskState = "todo"
	StateDoing TaskState = "doing"
	StateDone  TaskState = "done"
	StateTrash TaskState = "trash"
)

// ParseTaskState converts s to a TaskState, rejecting anything outside the
// closed set of states.
func ParseTaskState(s string) (TaskState, error) {
	switch state := TaskState(s); state {
	case StateDraft, StateTodo, StateDoing, StateDone, StateTrash:
		return state, nil
	default:
		return "", fmt.Errorf("unknown task state: %q", s)
	}
}

func (s TaskState) String() string { return string(s) }

// MaxTitleLen bounds the task title column.
const MaxTitleLen = 50

type Task struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	State       TaskState `db:"state"`
	UserID      int64     `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
}
