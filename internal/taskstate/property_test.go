package taskstate

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gurkanbulca/pronote/internal/models"
)

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func fromFlags(flags []bool) []models.SubTask {
	return subTasks(flags...)
}

// TestDeriveStatusProperties checks the status rule for arbitrary lists.
// Property: d == 0 => ToDo, 0 < d < n => InProgress, d == n > 0 => Completed
func TestDeriveStatusProperties(t *testing.T) {
	properties := newProperties()

	properties.Property("status follows done count", prop.ForAll(
		func(flags []bool) bool {
			n, d := len(flags), 0
			for _, f := range flags {
				if f {
					d++
				}
			}

			got := DeriveStatus(fromFlags(flags))
			switch {
			case n == 0, d == 0:
				return got == models.StatusToDo
			case d == n:
				return got == models.StatusCompleted
			default:
				return got == models.StatusInProgress
			}
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// TestToggleRoundTrip checks that toggling the same sub-task twice restores
// the original derived status.
func TestToggleRoundTrip(t *testing.T) {
	properties := newProperties()

	properties.Property("double toggle restores status", prop.ForAll(
		func(flags []bool, pick int) bool {
			list := fromFlags(flags)
			tk := &models.Task{ID: "t", SubTasks: list, Status: DeriveStatus(list)}
			target := list[pick%len(list)].ID

			once, _, err := ToggleSubTask(tk, target)
			if err != nil {
				return false
			}
			twice, change, err := ToggleSubTask(once, target)
			if err != nil {
				return false
			}
			return twice.Status == tk.Status && !change.Changed && twice.SubTasks[pick%len(list)].Done == flags[pick%len(list)]
		},
		gen.SliceOfN(8, gen.Bool()),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

// TestUrgencyProperties checks the two "no banner" rules.
func TestUrgencyProperties(t *testing.T) {
	properties := newProperties()
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	statuses := gen.OneConstOf(models.StatusToDo, models.StatusInProgress, models.StatusCompleted)

	properties.Property("non-positive days remaining means no urgency", prop.ForAll(
		func(minutesAgo int64, status models.Status) bool {
			deadline := now.Add(-time.Duration(minutesAgo) * time.Minute)
			if DaysRemaining(deadline, now) > 0 {
				return false
			}
			return EvaluateUrgency(deadline, now, status).IsNone()
		},
		gen.Int64Range(0, 60*24*365),
		statuses,
	))

	properties.Property("completed tasks have no urgency", prop.ForAll(
		func(minutes int64) bool {
			deadline := now.Add(time.Duration(minutes) * time.Minute)
			return EvaluateUrgency(deadline, now, models.StatusCompleted).IsNone()
		},
		gen.Int64Range(-60*24*365, 60*24*365),
	))

	properties.TestingRun(t)
}

// TestCategorizeProperties checks bucket membership and ordering for
// arbitrary task lists.
func TestCategorizeProperties(t *testing.T) {
	properties := newProperties()
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	build := func(statuses []int, offsets []int64) []*models.Task {
		n := len(statuses)
		if len(offsets) < n {
			n = len(offsets)
		}
		tasks := make([]*models.Task, n)
		for i := 0; i < n; i++ {
			tasks[i] = &models.Task{
				ID:       string(rune('A' + i)),
				Status:   models.Status(statuses[i]),
				Deadline: models.DeadlineAt(now.Add(time.Duration(offsets[i]) * time.Hour)),
			}
		}
		return tasks
	}

	isOrdered := func(input, bucket []*models.Task) bool {
		pos := make(map[*models.Task]int, len(input))
		for i, t := range input {
			pos[t] = i
		}
		last := -1
		for _, t := range bucket {
			p, ok := pos[t]
			if !ok || p <= last {
				return false
			}
			last = p
		}
		return true
	}

	properties.Property("status buckets partition the input in order", prop.ForAll(
		func(statuses []int, offsets []int64) bool {
			tasks := build(statuses, offsets)
			c := Categorize(tasks, now)

			if len(c.NotDone)+len(c.InProgress)+len(c.Completed) != len(tasks) {
				return false
			}
			return isOrdered(tasks, c.NotDone) &&
				isOrdered(tasks, c.InProgress) &&
				isOrdered(tasks, c.Completed) &&
				isOrdered(tasks, c.FailedToDo)
		},
		gen.SliceOfN(20, gen.IntRange(0, 2)),
		gen.SliceOfN(20, gen.Int64Range(-500, 500)),
	))

	properties.Property("failed bucket holds exactly the unfinished past-due tasks", prop.ForAll(
		func(statuses []int, offsets []int64) bool {
			tasks := build(statuses, offsets)
			c := Categorize(tasks, now)

			want := 0
			for _, t := range tasks {
				if t.Status != models.StatusCompleted && t.Deadline.Time.Before(now) {
					want++
				}
			}
			if len(c.FailedToDo) != want {
				return false
			}
			for _, t := range c.FailedToDo {
				if t.Status == models.StatusCompleted {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.IntRange(0, 2)),
		gen.SliceOfN(20, gen.Int64Range(-500, 500)),
	))

	properties.TestingRun(t)
}
