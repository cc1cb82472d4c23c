package taskstate

import (
	"fmt"
	"time"

	"github.com/gurkanbulca/pronote/internal/models"
)

// TaskView is a task enriched with everything a dashboard card shows.
type TaskView struct {
	Task          *models.Task
	DeadlineValid bool
	DaysRemaining int
	Overdue       bool
	Urgency       Urgency
}

// History is the output of one categorization pass. All fields were
// computed against the same Now.
type History struct {
	Now        time.Time
	Views      []TaskView
	Categories Categories
}

func BuildView(t *models.Task, now time.Time) TaskView {
	v := TaskView{
		Task:          t,
		DeadlineValid: t.Deadline.Valid,
		Overdue:       IsOverdue(t, now),
		Urgency:       TaskUrgency(t, now),
	}
	if t.Deadline.Valid {
		v.DaysRemaining = DaysRemaining(t.Deadline.Time, now)
	}
	return v
}

func BuildViews(tasks []*models.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, BuildView(t, now))
	}
	return views
}

// BuildHistory enriches and categorizes tasks with a single "now" so that
// urgency and past-deadline checks agree.
func BuildHistory(tasks []*models.Task, now time.Time) History {
	return History{
		Now:        now,
		Views:      BuildViews(tasks, now),
		Categories: Categorize(tasks, now),
	}
}

// CanDelete enforces the deletion policy: only completed tasks go away.
func CanDelete(t *models.Task) error {
	if t.Status != models.StatusCompleted {
		return fmt.Errorf("%w: task %s is %s", ErrTaskNotCompleted, t.ID, t.Status)
	}
	return nil
}
