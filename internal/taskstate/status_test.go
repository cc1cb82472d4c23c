package taskstate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/pronote/internal/models"
)

func subTasks(done ...bool) []models.SubTask {
	out := make([]models.SubTask, len(done))
	for i, d := range done {
		out[i] = models.SubTask{ID: string(rune('a' + i)), Name: "step", Done: d}
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		subTasks []models.SubTask
		want     models.Status
	}{
		{"nil list", nil, models.StatusToDo},
		{"empty list", []models.SubTask{}, models.StatusToDo},
		{"none done", subTasks(false, false, false), models.StatusToDo},
		{"one of three done", subTasks(true, false, false), models.StatusInProgress},
		{"two of three done", subTasks(true, true, false), models.StatusInProgress},
		{"all done", subTasks(true, true, true), models.StatusCompleted},
		{"single done", subTasks(true), models.StatusCompleted},
		{"single not done", subTasks(false), models.StatusToDo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.subTasks))
		})
	}
}

func TestToggleSubTask(t *testing.T) {
	task := &models.Task{ID: "t1", Status: models.StatusToDo, SubTasks: subTasks(false, false)}

	next, change, err := ToggleSubTask(task, "a")
	require.NoError(t, err)
	assert.True(t, next.SubTasks[0].Done)
	assert.Equal(t, models.StatusInProgress, next.Status)
	assert.Equal(t, StatusChange{TaskID: "t1", Status: models.StatusInProgress, Changed: true}, change)

	// input untouched
	assert.False(t, task.SubTasks[0].Done)
	assert.Equal(t, models.StatusToDo, task.Status)

	next, change, err = ToggleSubTask(next, "b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, next.Status)
	assert.True(t, change.Changed)

	back, change, err := ToggleSubTask(next, "b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, back.Status)
	assert.True(t, change.Changed)
}

func TestToggleSubTask_NotFound(t *testing.T) {
	task := &models.Task{ID: "t1", SubTasks: subTasks(false)}

	next, _, err := ToggleSubTask(task, "missing")
	assert.Nil(t, next)
	assert.True(t, errors.Is(err, ErrSubTaskNotFound))
}

func TestToggleSubTask_UnchangedStatus(t *testing.T) {
	task := &models.Task{ID: "t1", Status: models.StatusInProgress, SubTasks: subTasks(true, false, false)}

	_, change, err := ToggleSubTask(task, "b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, change.Status)
	assert.False(t, change.Changed)
}

func TestManualOverride(t *testing.T) {
	task := &models.Task{ID: "t1", Status: models.StatusToDo}

	completed, change := SetManualStatus(task, models.StatusCompleted)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.True(t, completed.StatusManual)
	assert.True(t, change.Changed)
	assert.True(t, change.Manual)
	assert.NoError(t, CanDelete(completed))

	t.Run("sub-task edits keep the manual value", func(t *testing.T) {
		edited, change := ReplaceSubTasks(completed, subTasks(false, false))
		assert.Equal(t, models.StatusCompleted, edited.Status)
		assert.True(t, edited.StatusManual)
		assert.False(t, change.Changed)

		toggled, _, err := ToggleSubTask(edited, "a")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, toggled.Status)
		assert.True(t, toggled.SubTasks[0].Done)
	})

	t.Run("clearing recomputes from sub-tasks", func(t *testing.T) {
		edited, _ := ReplaceSubTasks(completed, subTasks(true, false))
		cleared, change := ClearManualStatus(edited)
		assert.Equal(t, models.StatusInProgress, cleared.Status)
		assert.False(t, cleared.StatusManual)
		assert.True(t, change.Changed)
		assert.False(t, change.Manual)
	})
}

func TestResolve(t *testing.T) {
	list := subTasks(true, true)
	assert.Equal(t, models.StatusCompleted, Resolve(Derived(), list))
	assert.Equal(t, models.StatusToDo, Resolve(ManuallySet(models.StatusToDo), list))

	v, ok := ManuallySet(models.StatusInProgress).Manual()
	assert.True(t, ok)
	assert.Equal(t, models.StatusInProgress, v)

	_, ok = Derived().Manual()
	assert.False(t, ok)

	assert.Equal(t, "derived", Derived().String())
	assert.Equal(t, "manual(completed)", ManuallySet(models.StatusCompleted).String())
}

func TestRecompute(t *testing.T) {
	stale := &models.Task{ID: "t1", Status: models.StatusToDo, SubTasks: subTasks(true, true)}

	fixed, change := Recompute(stale)
	assert.Equal(t, models.StatusCompleted, fixed.Status)
	assert.True(t, change.Changed)

	_, change = Recompute(fixed)
	assert.False(t, change.Changed)
}

func TestReplaceSubTasks_CopiesInput(t *testing.T) {
	task := &models.Task{ID: "t1"}
	list := subTasks(false)

	next, change := ReplaceSubTasks(task, list)
	list[0].Done = true

	assert.False(t, next.SubTasks[0].Done)
	assert.Equal(t, models.StatusToDo, change.Status)
}
