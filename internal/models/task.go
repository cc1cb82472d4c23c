package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle stage of a task. The numeric values are the wire
// and storage representation.
type Status int8

const (
	StatusToDo       Status = 0
	StatusInProgress Status = 1
	StatusCompleted  Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusToDo:
		return "to_do"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int8(s))
	}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s >= StatusToDo && s <= StatusCompleted
}

// ParseStatus converts a wire integer into a Status.
func ParseStatus(v int32) (Status, error) {
	if v < int32(StatusToDo) || v > int32(StatusCompleted) {
		return StatusToDo, fmt.Errorf("invalid task status %d", v)
	}
	return Status(v), nil
}

type Task struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	AssignedTo   string    `db:"assigned_to" json:"assigned_to"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	Deadline     Deadline  `db:"deadline" json:"deadline"`
	Status       Status    `db:"status" json:"status"`
	StatusManual bool      `db:"status_manual" json:"status_manual"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// SubTasks are loaded from the sub_tasks table in position order.
	SubTasks []SubTask `db:"-" json:"sub_tasks"`
}

// Clone returns a copy of t that shares no sub-task storage with it.
func (t *Task) Clone() *Task {
	c := *t
	if t.SubTasks != nil {
		c.SubTasks = make([]SubTask, len(t.SubTasks))
		copy(c.SubTasks, t.SubTasks)
	}
	return &c
}

// InvolvesUser reports whether userID created or is assigned to the task.
func (t *Task) InvolvesUser(userID string) bool {
	return userID != "" && (t.CreatedBy == userID || t.AssignedTo == userID)
}

type SubTask struct {
	TaskID   string `db:"task_id" json:"-"`
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Done     bool   `db:"done" json:"done"`
	Position int    `db:"position" json:"-"`
}
