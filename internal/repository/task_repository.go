package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/pronote/internal/database"
	"github.com/gurkanbulca/pronote/internal/models"
)

var (
	taskColumns    = database.ColumnNames(database.TasksTable)
	subTaskColumns = database.ColumnNames(database.SubTasksTable)
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and its sub-tasks in one transaction. CreatedAt and
// UpdatedAt are filled in when zero.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	ts := now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = ts
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args := r.db.Builder().Insert(database.TasksTable.Name).
			Columns(taskColumns...).
			Values(t.ID, t.Name, t.Description, t.AssignedTo, t.CreatedBy, t.Deadline,
				t.Status, t.StatusManual, t.CreatedAt, t.UpdatedAt).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return r.insertSubTasks(ctx, tx, t.ID, t.SubTasks)
	})
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query, args := r.db.Builder().Select(taskColumns...).
		From(entsql.Table(database.TasksTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var t models.Task
	if err := r.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query task: %w", err)
	}

	tasks := []*models.Task{&t}
	if err := r.loadSubTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByAssignee returns every task assigned to userID, oldest first, with
// sub-tasks loaded.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error) {
	return r.list(ctx, entsql.EQ("assigned_to", userID))
}

// ListByCreator returns every task created by userID, oldest first.
func (r *TaskRepository) ListByCreator(ctx context.Context, userID string) ([]*models.Task, error) {
	return r.list(ctx, entsql.EQ("created_by", userID))
}

func (r *TaskRepository) list(ctx context.Context, where *entsql.Predicate) ([]*models.Task, error) {
	query, args := r.db.Builder().Select(taskColumns...).
		From(entsql.Table(database.TasksTable.Name)).
		Where(where).
		OrderBy("created_at", "id").
		Query()

	tasks := []*models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	if err := r.loadSubTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes every mutable column and replaces the sub-task list.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = now()

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args := r.db.Builder().Update(database.TasksTable.Name).
			Set("name", t.Name).
			Set("description", t.Description).
			Set("assigned_to", t.AssignedTo).
			Set("deadline", t.Deadline).
			Set("status", t.Status).
			Set("status_manual", t.StatusManual).
			Set("updated_at", t.UpdatedAt).
			Where(entsql.EQ("id", t.ID)).
			Query()
		if err := execOne(ctx, tx, query, args, "task", t.ID); err != nil {
			return err
		}

		query, args = r.db.Builder().Delete(database.SubTasksTable.Name).
			Where(entsql.EQ("task_id", t.ID)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear sub-tasks: %w", err)
		}
		return r.insertSubTasks(ctx, tx, t.ID, t.SubTasks)
	})
}

// UpdateStatus persists a recomputed or manually set status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status models.Status, manual bool) error {
	query, args := r.db.Builder().Update(database.TasksTable.Name).
		Set("status", status).
		Set("status_manual", manual).
		Set("updated_at", now()).
		Where(entsql.EQ("id", id)).
		Query()
	return execOne(ctx, r.db, query, args, "task", id)
}

func (r *TaskRepository) SetSubTaskDone(ctx context.Context, taskID, subTaskID string, done bool) error {
	query, args := r.db.Builder().Update(database.SubTasksTable.Name).
		Set("done", done).
		Where(entsql.And(
			entsql.EQ("task_id", taskID),
			entsql.EQ("id", subTaskID),
		)).
		Query()
	return execOne(ctx, r.db, query, args, "sub-task", subTaskID)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args := r.db.Builder().Delete(database.SubTasksTable.Name).
			Where(entsql.EQ("task_id", id)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete sub-tasks: %w", err)
		}

		query, args = r.db.Builder().Delete(database.TasksTable.Name).
			Where(entsql.EQ("id", id)).
			Query()
		return execOne(ctx, tx, query, args, "task", id)
	})
}

func (r *TaskRepository) insertSubTasks(ctx context.Context, tx *sqlx.Tx, taskID string, subTasks []models.SubTask) error {
	if len(subTasks) == 0 {
		return nil
	}

	insert := r.db.Builder().Insert(database.SubTasksTable.Name).Columns(subTaskColumns...)
	for i, st := range subTasks {
		insert.Values(taskID, st.ID, st.Name, st.Done, i)
	}

	query, args := insert.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sub-tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) loadSubTasks(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]any, len(tasks))
	byID := make(map[string]*models.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
		t.SubTasks = []models.SubTask{}
	}

	query, args := r.db.Builder().Select(subTaskColumns...).
		From(entsql.Table(database.SubTasksTable.Name)).
		Where(entsql.In("task_id", ids...)).
		OrderBy("task_id", "position").
		Query()

	var rows []models.SubTask
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("query sub-tasks: %w", err)
	}

	for _, st := range rows {
		if t, ok := byID[st.TaskID]; ok {
			t.SubTasks = append(t.SubTasks, st)
		}
	}
	return nil
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, ex sqlx.ExecerContext, query string, args []any, kind, id string) error {
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s %s: %w", kind, id, ErrAlreadyExists)
		}
		return fmt.Errorf("write %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
