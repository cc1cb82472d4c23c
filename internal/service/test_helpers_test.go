package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/database/dbtest"
	"github.com/gurkanbulca/pronote/internal/middleware"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/internal/repository"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// testEnv wires the services to a fresh in-memory database.
type testEnv struct {
	t        *testing.T
	users    *repository.UserRepository
	tasks    *countingTaskStore
	messages *repository.MessageRepository
	tokens   *auth.TokenManager

	auth    *AuthService
	task    *TaskService
	message *MessageService
}

func newTestEnv(t *testing.T, opts ...TaskServiceOption) *testEnv {
	t.Helper()
	db := dbtest.Open(t)

	env := &testEnv{
		t:        t,
		users:    repository.NewUserRepository(db),
		tasks:    &countingTaskStore{TaskRepository: repository.NewTaskRepository(db)},
		messages: repository.NewMessageRepository(db),
		tokens:   auth.NewTokenManager("test-access", "test-refresh", 15*time.Minute, time.Hour),
	}

	env.auth = NewAuthService(env.users, env.tokens, auth.NewPasswordManagerWithCost(bcrypt.MinCost), nil)
	opts = append([]TaskServiceOption{WithClock(func() time.Time { return testNow })}, opts...)
	env.task = NewTaskService(env.tasks, env.users, opts...)
	env.message = NewMessageService(env.messages, env.users, nil)
	return env
}

// register creates a user through the auth service and returns it with an
// authenticated context.
func (e *testEnv) register(email, first string) (*pronotev1.User, context.Context) {
	e.t.Helper()
	resp, err := e.auth.Register(context.Background(), &pronotev1.RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: first,
		LastName:  "Tester",
		Job:       "QA",
	})
	require.NoError(e.t, err)
	return resp.User, asUser(resp.User)
}

func asUser(u *pronotev1.User) context.Context {
	return middleware.WithUser(context.Background(), u.ID, u.Email)
}

func (e *testEnv) createTask(ctx context.Context, assignee string, deadline time.Time, subTasks ...*pronotev1.SubTask) *pronotev1.Task {
	e.t.Helper()
	resp, err := e.task.CreateTask(ctx, &pronotev1.CreateTaskRequest{
		Name:        "Prepare release",
		Description: "cut the branch",
		AssignedTo:  assignee,
		Deadline:    deadline.Format(time.RFC3339),
		SubTasks:    subTasks,
	})
	require.NoError(e.t, err)
	return resp.Task
}

func sub(id, name string) *pronotev1.SubTask {
	return &pronotev1.SubTask{ID: id, Name: name}
}

// countingTaskStore counts assigned-list reads. A non-nil gate holds reads
// before they query; a non-nil resume holds them after, signalling read.
type countingTaskStore struct {
	*repository.TaskRepository
	assignedReads atomic.Int32
	gate          chan struct{}
	read          chan struct{}
	resume        chan struct{}
}

func (s *countingTaskStore) ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error) {
	s.assignedReads.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	tasks, err := s.TaskRepository.ListByAssignee(ctx, userID)
	if s.resume != nil {
		select {
		case s.read <- struct{}{}:
		default:
		}
		<-s.resume
	}
	return tasks, err
}

// fakeCache is an in-process AssignedTaskCache.
type fakeCache struct {
	mu          sync.Mutex
	lists       map[string][]*models.Task
	invalidated []string
	failReads   bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: make(map[string][]*models.Task)}
}

func (c *fakeCache) GetAssigned(_ context.Context, userID string) ([]*models.Task, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return nil, false, errors.New("redis: connection refused")
	}
	tasks, ok := c.lists[userID]
	if !ok {
		return nil, false, nil
	}
	out := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out, true, nil
}

func (c *fakeCache) SetAssigned(_ context.Context, userID string, tasks []*models.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		stored[i] = t.Clone()
	}
	c.lists[userID] = stored
	return nil
}

func (c *fakeCache) InvalidateAssigned(_ context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.lists, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func (c *fakeCache) cached(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lists[userID]
	return ok
}
