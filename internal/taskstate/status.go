// Package taskstate derives task status, deadline urgency and history
// categories from already-fetched task records. Nothing in this package
// performs I/O or reads the clock; callers pass "now" explicitly.
package taskstate

import (
	"errors"
	"fmt"

	"github.com/gurkanbulca/pronote/internal/models"
)

var (
	ErrSubTaskNotFound  = errors.New("sub-task not found")
	ErrTaskNotCompleted = errors.New("only completed tasks can be deleted")
)

// DeriveStatus maps a sub-task list to a status:
// no sub-tasks or none done is ToDo, all done is Completed, anything in
// between is InProgress. A task without sub-tasks never auto-completes.
func DeriveStatus(subTasks []models.SubTask) models.Status {
	n := len(subTasks)
	if n == 0 {
		return models.StatusToDo
	}

	done := 0
	for _, st := range subTasks {
		if st.Done {
			done++
		}
	}

	switch done {
	case 0:
		return models.StatusToDo
	case n:
		return models.StatusCompleted
	default:
		return models.StatusInProgress
	}
}

// StatusSource says where a task's status comes from: derived from its
// sub-tasks, or set manually to a fixed value.
type StatusSource struct {
	manual bool
	value  models.Status
}

// Derived is the default source.
func Derived() StatusSource {
	return StatusSource{}
}

// ManuallySet pins the status to s regardless of sub-task state.
func ManuallySet(s models.Status) StatusSource {
	return StatusSource{manual: true, value: s}
}

// Manual returns the pinned value and true for a manual source.
func (s StatusSource) Manual() (models.Status, bool) {
	return s.value, s.manual
}

func (s StatusSource) String() string {
	if s.manual {
		return fmt.Sprintf("manual(%s)", s.value)
	}
	return "derived"
}

// SourceOf reads the source recorded on a task.
func SourceOf(t *models.Task) StatusSource {
	if t.StatusManual {
		return ManuallySet(t.Status)
	}
	return Derived()
}

// Resolve returns the effective status for a source and sub-task list.
func Resolve(src StatusSource, subTasks []models.SubTask) models.Status {
	if v, ok := src.Manual(); ok {
		return v
	}
	return DeriveStatus(subTasks)
}

// StatusChange is the persistence request produced whenever a mutation may
// have moved a task's status. Changed is false when the stored values are
// already correct and no write is needed.
type StatusChange struct {
	TaskID  string
	Status  models.Status
	Manual  bool
	Changed bool
}

// ToggleSubTask flips the done flag of one sub-task and recomputes the
// status. The input task is left untouched.
func ToggleSubTask(t *models.Task, subTaskID string) (*models.Task, StatusChange, error) {
	next := t.Clone()
	for i := range next.SubTasks {
		if next.SubTasks[i].ID == subTaskID {
			next.SubTasks[i].Done = !next.SubTasks[i].Done
			return next, settle(t, next, SourceOf(t)), nil
		}
	}
	return nil, StatusChange{}, fmt.Errorf("%w: %s", ErrSubTaskNotFound, subTaskID)
}

// ReplaceSubTasks swaps the whole sub-task list, as an edit form does, and
// recomputes the status.
func ReplaceSubTasks(t *models.Task, subTasks []models.SubTask) (*models.Task, StatusChange) {
	next := t.Clone()
	next.SubTasks = make([]models.SubTask, len(subTasks))
	copy(next.SubTasks, subTasks)
	return next, settle(t, next, SourceOf(t))
}

// SetManualStatus pins the task status to s.
func SetManualStatus(t *models.Task, s models.Status) (*models.Task, StatusChange) {
	next := t.Clone()
	return next, settle(t, next, ManuallySet(s))
}

// ClearManualStatus drops a manual override and derives the status again.
func ClearManualStatus(t *models.Task) (*models.Task, StatusChange) {
	next := t.Clone()
	return next, settle(t, next, Derived())
}

// Recompute brings a task's cached status in line with its source, e.g. for
// records written by an older client.
func Recompute(t *models.Task) (*models.Task, StatusChange) {
	next := t.Clone()
	return next, settle(t, next, SourceOf(t))
}

func settle(prev, next *models.Task, src StatusSource) StatusChange {
	_, manual := src.Manual()
	next.StatusManual = manual
	next.Status = Resolve(src, next.SubTasks)

	return StatusChange{
		TaskID:  next.ID,
		Status:  next.Status,
		Manual:  next.StatusManual,
		Changed: next.Status != prev.Status || next.StatusManual != prev.StatusManual,
	}
}
