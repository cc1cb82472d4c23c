package taskstate

import (
	"time"

	"github.com/gurkanbulca/pronote/internal/models"
)

// Categories are the history buckets for one user's tasks. The three status
// buckets partition the input; FailedToDo overlaps them and holds every
// unfinished task whose deadline has passed.
type Categories struct {
	NotDone    []*models.Task
	InProgress []*models.Task
	Completed  []*models.Task
	FailedToDo []*models.Task
}

// Categorize sorts tasks into buckets in one pass. Every bucket keeps the
// input order. Tasks with an unparseable deadline are never FailedToDo.
func Categorize(tasks []*models.Task, now time.Time) Categories {
	c := Categories{
		NotDone:    []*models.Task{},
		InProgress: []*models.Task{},
		Completed:  []*models.Task{},
		FailedToDo: []*models.Task{},
	}

	for _, t := range tasks {
		switch t.Status {
		case models.StatusToDo:
			c.NotDone = append(c.NotDone, t)
		case models.StatusInProgress:
			c.InProgress = append(c.InProgress, t)
		case models.StatusCompleted:
			c.Completed = append(c.Completed, t)
		}

		if IsOverdue(t, now) {
			c.FailedToDo = append(c.FailedToDo, t)
		}
	}

	return c
}

// IsOverdue reports whether an unfinished task's deadline is before now.
func IsOverdue(t *models.Task, now time.Time) bool {
	return t.Status != models.StatusCompleted && t.Deadline.Before(now)
}

// Len returns the number of tasks per bucket, keyed by bucket name.
func (c Categories) Len() map[string]int {
	return map[string]int{
		"not_done":     len(c.NotDone),
		"in_progress":  len(c.InProgress),
		"completed":    len(c.Completed),
		"failed_to_do": len(c.FailedToDo),
	}
}
