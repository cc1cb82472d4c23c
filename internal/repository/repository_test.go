package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/pronote/internal/database"
	"github.com/gurkanbulca/pronote/internal/database/dbtest"
	"github.com/gurkanbulca/pronote/internal/models"
)

func createUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Job:          "Engineer",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func newTask(creator, assignee string, subTasks ...models.SubTask) *models.Task {
	return &models.Task{
		ID:          uuid.NewString(),
		Name:        "Write report",
		Description: "quarterly",
		AssignedTo:  assignee,
		CreatedBy:   creator,
		Deadline:    models.DeadlineAt(time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)),
		SubTasks:    subTasks,
	}
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	task := newTask(alice.ID, bob.ID,
		models.SubTask{ID: "1700000000001", Name: "outline"},
		models.SubTask{ID: "1700000000002", Name: "draft", Done: true},
	)
	task.Status = models.StatusInProgress
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, bob.ID, got.AssignedTo)
	assert.Equal(t, alice.ID, got.CreatedBy)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.False(t, got.StatusManual)
	assert.True(t, got.Deadline.Valid)
	assert.True(t, task.Deadline.Time.Equal(got.Deadline.Time))
	require.Len(t, got.SubTasks, 2)
	assert.Equal(t, "outline", got.SubTasks[0].Name)
	assert.False(t, got.SubTasks[0].Done)
	assert.Equal(t, "draft", got.SubTasks[1].Name)
	assert.True(t, got.SubTasks[1].Done)
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	repo := NewTaskRepository(dbtest.Open(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepository_MalformedDeadlineStillReads(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	u := createUser(t, users, "u@example.com")
	task := newTask(u.ID, u.ID)
	task.Deadline = models.ParseDeadline("sometime next week")
	require.NoError(t, repo.Create(ctx, task))

	tasks, err := repo.ListByAssignee(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Deadline.Valid)
	assert.Equal(t, "sometime next week", tasks[0].Deadline.Raw)
}

func TestTaskRepository_Lists(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	first := newTask(alice.ID, bob.ID, models.SubTask{ID: "a", Name: "one"})
	first.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := newTask(alice.ID, bob.ID)
	second.CreatedAt = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	own := newTask(bob.ID, alice.ID)

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, own))

	assigned, err := repo.ListByAssignee(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 2)
	assert.Equal(t, first.ID, assigned[0].ID)
	assert.Equal(t, second.ID, assigned[1].ID)
	assert.Len(t, assigned[0].SubTasks, 1)
	assert.NotNil(t, assigned[1].SubTasks)
	assert.Empty(t, assigned[1].SubTasks)

	created, err := repo.ListByCreator(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, own.ID, created[0].ID)

	none, err := repo.ListByAssignee(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTaskRepository_UpdateReplacesSubTasks(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	u := createUser(t, users, "u@example.com")
	task := newTask(u.ID, u.ID, models.SubTask{ID: "a", Name: "old"})
	require.NoError(t, repo.Create(ctx, task))

	task.Name = "Renamed"
	task.SubTasks = []models.SubTask{
		{ID: "b", Name: "new one", Done: true},
		{ID: "c", Name: "new two"},
	}
	task.Status = models.StatusInProgress
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.StatusInProgress, got.Status)
	require.Len(t, got.SubTasks, 2)
	assert.Equal(t, "b", got.SubTasks[0].ID)
	assert.Equal(t, "c", got.SubTasks[1].ID)

	missing := newTask(u.ID, u.ID)
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestTaskRepository_StatusAndSubTaskWrites(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	u := createUser(t, users, "u@example.com")
	task := newTask(u.ID, u.ID, models.SubTask{ID: "a", Name: "only"})
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.SetSubTaskDone(ctx, task.ID, "a", true))
	require.NoError(t, repo.UpdateStatus(ctx, task.ID, models.StatusCompleted, false))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.SubTasks[0].Done)
	assert.Equal(t, models.StatusCompleted, got.Status)

	require.NoError(t, repo.UpdateStatus(ctx, task.ID, models.StatusToDo, true))
	got, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusToDo, got.Status)
	assert.True(t, got.StatusManual)

	assert.ErrorIs(t, repo.SetSubTaskDone(ctx, task.ID, "zzz", true), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.StatusToDo, false), ErrNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	u := createUser(t, users, "u@example.com")
	task := newTask(u.ID, u.ID, models.SubTask{ID: "a", Name: "x"})
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM sub_tasks"))
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "  Alice@Example.com ")
	assert.Equal(t, "alice@example.com", alice.Email)
	bob := createUser(t, repo, "bob@example.com")

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.False(t, got.RefreshToken.Valid)
	assert.False(t, got.LastLoginAt.Valid)

	exists, err := repo.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	// duplicate email
	dup := &models.User{ID: uuid.NewString(), Email: "bob@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrAlreadyExists)

	others, err := repo.ListExcept(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, bob.ID, others[0].ID)

	require.NoError(t, repo.SetRefreshToken(ctx, alice.ID, sql.NullString{String: "tok", Valid: true}))
	require.NoError(t, repo.TouchLogin(ctx, alice.ID, time.Now()))
	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.RefreshToken.String)
	assert.True(t, got.LastLoginAt.Valid)

	got.Job = "Manager"
	got.Email = "ALICE2@example.com"
	require.NoError(t, repo.UpdateProfile(ctx, got))
	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manager", got.Job)
	assert.Equal(t, "alice2@example.com", got.Email)

	got.Email = "bob@example.com"
	assert.ErrorIs(t, repo.UpdateProfile(ctx, got), ErrAlreadyExists)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepository_ListConversation(t *testing.T) {
	db := dbtest.Open(t)
	users := NewUserRepository(db)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")
	carol := createUser(t, users, "carol@example.com")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	send := func(from, to *models.User, content string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &models.Message{
			ID: uuid.NewString(), SenderID: from.ID, RecipientID: to.ID, Content: content, SentAt: at,
		}))
	}

	send(bob, alice, "second", base.Add(time.Minute))
	send(alice, bob, "first", base)
	send(alice, carol, "elsewhere", base.Add(30*time.Second))
	send(alice, bob, "third", base.Add(2*time.Minute+500*time.Millisecond))

	msgs, err := repo.ListConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	var contents []string
	for _, m := range msgs {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"first", "second", "third"}, contents)

	reversed, err := repo.ListConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, reversed, 3)
}

func newMockRepo(t *testing.T) (*TaskRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewTaskRepository(database.New(sqlDB, "postgres")), mock
}

func TestTaskRepository_CreateRollsBackOnSubTaskFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "tasks"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "sub_tasks"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	task := newTask("u1", "u1", models.SubTask{ID: "a", Name: "x"})
	err := repo.Create(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert sub-tasks")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_QueryFailures(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	boom := fmt.Errorf("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnError(boom)
	_, err := repo.ListByAssignee(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnError(boom)
	_, err = repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tasks"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateStatus(ctx, "t1", models.StatusCompleted, false)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_PostgresUniqueViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	repo := NewUserRepository(database.New(sqlDB, "postgres"))
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	err = repo.Create(ctx, &models.User{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users"`)).
		WillReturnError(&pq.Error{Code: "23505"})
	err = repo.UpdateProfile(ctx, &models.User{ID: "u1", Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23503"})
	err = repo.Create(ctx, &models.User{ID: "u2", Email: "c@example.com"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
