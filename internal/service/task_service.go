package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/internal/repository"
	"github.com/gurkanbulca/pronote/internal/taskstate"
)

// TaskStore is the task persistence the service needs.
type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error)
	ListByCreator(ctx context.Context, userID string) ([]*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	UpdateStatus(ctx context.Context, id string, status models.Status, manual bool) error
	SetSubTaskDone(ctx context.Context, taskID, subTaskID string, done bool) error
	Delete(ctx context.Context, id string) error
}

// UserLookup resolves assignees.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AssignedTaskCache caches the raw "assigned to user" lists.
type AssignedTaskCache interface {
	GetAssigned(ctx context.Context, userID string) ([]*models.Task, bool, error)
	SetAssigned(ctx context.Context, userID string, tasks []*models.Task) error
	InvalidateAssigned(ctx context.Context, userIDs ...string) error
}

type TaskService struct {
	tasks  TaskStore
	users  UserLookup
	cache  AssignedTaskCache
	group  singleflight.Group
	now    func() time.Time
	logger *slog.Logger

	// cacheMu orders cache fills against invalidations; gens counts the
	// invalidations per assignee.
	cacheMu sync.Mutex
	gens    map[string]uint64
}

// sharedReadTimeout bounds an assigned-list read that outlives the caller
// who started it.
const sharedReadTimeout = 30 * time.Second

type TaskServiceOption func(*TaskService)

// WithTaskCache enables the assigned-task cache.
func WithTaskCache(c AssignedTaskCache) TaskServiceOption {
	return func(s *TaskService) { s.cache = c }
}

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) { s.now = now }
}

func WithTaskLogger(logger *slog.Logger) TaskServiceOption {
	return func(s *TaskService) { s.logger = logger }
}

func NewTaskService(tasks TaskStore, users UserLookup, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		tasks:  tasks,
		users:  users,
		now:    time.Now,
		logger: slog.Default(),
		gens:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("service", "task")
	return s
}

func (s *TaskService) CreateTask(ctx context.Context, req *pronotev1.CreateTaskRequest) (*pronotev1.TaskResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
		return nil, err
	}

	deadline := models.ParseDeadline(req.Deadline)
	if !deadline.Valid {
		return nil, status.Error(codes.InvalidArgument, "deadline must be an ISO-8601 timestamp")
	}

	subTasks, err := convertSubTasksFromProto(req.SubTasks)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   userID,
		Deadline:    deadline,
		Status:      models.StatusToDo,
	}
	task, _ = taskstate.ReplaceSubTasks(task, subTasks)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to create task")
	}
	s.invalidate(ctx, task.AssignedTo)

	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "assigned_to", task.AssignedTo)
	return &pronotev1.TaskResponse{Task: convertTaskToProto(task)}, nil
}

func (s *TaskService) GetTask(ctx context.Context, req *pronotev1.GetTaskRequest) (*pronotev1.TaskResponse, error) {
	task, err := s.loadTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &pronotev1.TaskResponse{Task: convertTaskToProto(task)}, nil
}

// ListTasks returns the caller's tasks: those assigned to them (the
// default) or those they created.
func (s *TaskService) ListTasks(ctx context.Context, req *pronotev1.ListTasksRequest) (*pronotev1.ListTasksResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []*models.Task
	switch req.Scope {
	case "", pronotev1.ScopeAssigned:
		tasks, err = s.fetchTasksForUser(ctx, userID)
	case pronotev1.ScopeCreated:
		tasks, err = s.tasks.ListByCreator(ctx, userID)
		if err == nil {
			tasks = s.heal(ctx, tasks)
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown scope %q", req.Scope)
	}
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to list tasks")
	}

	return &pronotev1.ListTasksResponse{Tasks: convertTasksToProto(tasks)}, nil
}

// UpdateTask applies the fields present in req. The status is only
// recomputed when the sub-task list is replaced.
func (s *TaskService) UpdateTask(ctx context.Context, req *pronotev1.UpdateTaskRequest) (*pronotev1.TaskResponse, error) {
	current, err := s.loadTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.AssignedTo != nil && *req.AssignedTo != current.AssignedTo {
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return nil, err
		}
		next.AssignedTo = *req.AssignedTo
	}
	if req.Deadline != nil {
		deadline := models.ParseDeadline(*req.Deadline)
		if !deadline.Valid {
			return nil, status.Error(codes.InvalidArgument, "deadline must be an ISO-8601 timestamp")
		}
		next.Deadline = deadline
	}
	if req.ReplaceSubTasks {
		subTasks, err := convertSubTasksFromProto(req.SubTasks)
		if err != nil {
			return nil, err
		}
		next, _ = taskstate.ReplaceSubTasks(next, subTasks)
	}

	if err := s.tasks.Update(ctx, next); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to update task")
	}
	s.invalidate(ctx, current.AssignedTo, next.AssignedTo)

	return &pronotev1.TaskResponse{Task: convertTaskToProto(next)}, nil
}

// ToggleSubTask flips one sub-task and persists the status change it
// causes, if any.
func (s *TaskService) ToggleSubTask(ctx context.Context, req *pronotev1.ToggleSubTaskRequest) (*pronotev1.ToggleSubTaskResponse, error) {
	current, err := s.loadTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	next, change, err := taskstate.ToggleSubTask(current, req.SubTaskID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to toggle sub-task")
	}

	var done bool
	for _, st := range next.SubTasks {
		if st.ID == req.SubTaskID {
			done = st.Done
			break
		}
	}

	if err := s.tasks.SetSubTaskDone(ctx, next.ID, req.SubTaskID, done); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to save sub-task")
	}
	// the sub-task row is already written
	err = s.persistTaskStatus(ctx, change)
	s.invalidate(ctx, next.AssignedTo)
	if err != nil {
		return nil, err
	}

	return &pronotev1.ToggleSubTaskResponse{
		Task:          convertTaskToProto(next),
		StatusChanged: change.Changed,
	}, nil
}

// SetTaskStatus pins the status to a value until ResetTaskStatus.
func (s *TaskService) SetTaskStatus(ctx context.Context, req *pronotev1.SetTaskStatusRequest) (*pronotev1.TaskResponse, error) {
	value, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	current, err := s.loadTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	next, change := taskstate.SetManualStatus(current, value)
	if err := s.persistStatus(ctx, change); err != nil {
		return nil, err
	}
	s.invalidate(ctx, next.AssignedTo)

	return &pronotev1.TaskResponse{Task: convertTaskToProto(next)}, nil
}

// ResetTaskStatus drops a manual status and derives it from the sub-tasks
// again.
func (s *TaskService) ResetTaskStatus(ctx context.Context, req *pronotev1.ResetTaskStatusRequest) (*pronotev1.TaskResponse, error) {
	current, err := s.loadTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	next, change := taskstate.ClearManualStatus(current)
	if err := s.persistStatus(ctx, change); err != nil {
		return nil, err
	}
	s.invalidate(ctx, next.AssignedTo)

	return &pronotev1.TaskResponse{Task: convertTaskToProto(next)}, nil
}

// DeleteTask removes a completed task.
func (s *TaskService) DeleteTask(ctx context.Context, req *pronotev1.DeleteTaskRequest) (*emptypb.Empty, error) {
	task, err := s.loadTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := taskstate.CanDelete(task); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to delete task")
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to delete task")
	}
	s.invalidate(ctx, task.AssignedTo)

	s.logger.InfoContext(ctx, "task deleted", "task_id", task.ID)
	return &emptypb.Empty{}, nil
}

// GetDashboard returns the caller's assigned tasks with their urgency.
func (s *TaskService) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*pronotev1.DashboardResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.fetchTasksForUser(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to load tasks")
	}

	now := s.now()
	views := taskstate.BuildViews(tasks, now)

	resp := &pronotev1.DashboardResponse{
		Now:   formatTime(now),
		Tasks: make([]*pronotev1.TaskView, len(views)),
	}
	for i, v := range views {
		resp.Tasks[i] = convertViewToProto(v)
	}
	return resp, nil
}

// GetHistory sorts the caller's assigned tasks into the history buckets.
func (s *TaskService) GetHistory(ctx context.Context, _ *emptypb.Empty) (*pronotev1.HistoryResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.fetchTasksForUser(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to load tasks")
	}

	h := taskstate.BuildHistory(tasks, s.now())

	byTask := make(map[*models.Task]*pronotev1.TaskView, len(h.Views))
	for _, v := range h.Views {
		byTask[v.Task] = convertViewToProto(v)
	}
	bucket := func(list []*models.Task) []*pronotev1.TaskView {
		out := make([]*pronotev1.TaskView, len(list))
		for i, t := range list {
			out[i] = byTask[t]
		}
		return out
	}

	return &pronotev1.HistoryResponse{
		Now:        formatTime(h.Now),
		NotDone:    bucket(h.Categories.NotDone),
		InProgress: bucket(h.Categories.InProgress),
		Completed:  bucket(h.Categories.Completed),
		FailedToDo: bucket(h.Categories.FailedToDo),
	}, nil
}

// fetchTasksForUser returns the tasks assigned to userID, through the
// cache when one is configured. Concurrent misses for the same user share
// one database read.
func (s *TaskService) fetchTasksForUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if s.cache != nil {
		tasks, ok, err := s.cache.GetAssigned(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "task cache read failed", "user_id", userID, "error", err)
		} else if ok {
			return s.heal(ctx, tasks), nil
		}
	}

	// The shared read outlives the caller that started it; each caller waits
	// on its own ctx.
	ch := s.group.DoChan(userID, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()

		gen := s.generation(userID)
		tasks, err := s.tasks.ListByAssignee(readCtx, userID)
		if err != nil {
			return nil, fmt.Errorf("list tasks for %s: %w", userID, err)
		}
		s.fillCache(readCtx, userID, gen, tasks)
		return tasks, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return s.heal(ctx, res.Val.([]*models.Task)), nil
	}
}

func (s *TaskService) generation(userID string) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gens[userID]
}

// fillCache stores a freshly read list unless the assignee was invalidated
// after gen was taken, in which case the list may predate that write.
func (s *TaskService) fillCache(ctx context.Context, userID string, gen uint64, tasks []*models.Task) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.gens[userID] != gen {
		s.logger.DebugContext(ctx, "skipping cache fill after concurrent write", "user_id", userID)
		return
	}
	if err := s.cache.SetAssigned(ctx, userID, tasks); err != nil {
		s.logger.WarnContext(ctx, "task cache write failed", "user_id", userID, "error", err)
	}
}

// heal returns tasks with every stored status that disagrees with its
// source recomputed and written back. The input slice is not modified.
func (s *TaskService) heal(ctx context.Context, tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, len(tasks))
	var stale []string
	for i, t := range tasks {
		out[i] = t
		fixed, change := taskstate.Recompute(t)
		if !change.Changed {
			continue
		}
		out[i] = fixed
		if err := s.persistStatus(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "failed to repair task status", "task_id", t.ID, "error", err)
			continue
		}
		stale = append(stale, fixed.AssignedTo)
	}
	s.invalidate(ctx, stale...)
	return out
}

// persistTaskStatus writes a status change produced by a sub-task edit.
// Unchanged statuses cost nothing.
func (s *TaskService) persistTaskStatus(ctx context.Context, change taskstate.StatusChange) error {
	if !change.Changed {
		return nil
	}
	return s.persistStatus(ctx, change)
}

// persistStatus always writes, since manual-flag flips matter even when
// the value stays the same.
func (s *TaskService) persistStatus(ctx context.Context, change taskstate.StatusChange) error {
	if err := s.tasks.UpdateStatus(ctx, change.TaskID, change.Status, change.Manual); err != nil {
		return toStatus(ctx, s.logger, err, "failed to save task status")
	}
	return nil
}

// loadTask fetches a task the caller created or is assigned to, repairing
// a stale stored status on the way.
func (s *TaskService) loadTask(ctx context.Context, id string) (*models.Task, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "task id is required")
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "task not found")
		}
		return nil, toStatus(ctx, s.logger, err, "failed to get task")
	}
	if !task.InvolvesUser(userID) {
		return nil, status.Error(codes.PermissionDenied, "task belongs to other users")
	}

	return s.heal(ctx, []*models.Task{task})[0], nil
}

func (s *TaskService) checkAssignee(ctx context.Context, userID string) error {
	if userID == "" {
		return status.Error(codes.InvalidArgument, "assigned_to is required")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return status.Error(codes.InvalidArgument, "assignee does not exist")
		}
		return toStatus(ctx, s.logger, err, "failed to look up assignee")
	}
	return nil
}

// invalidate drops cached assigned lists. Failures only cost freshness
// until the TTL runs out.
func (s *TaskService) invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for _, id := range userIDs {
		s.gens[id]++
	}
	if err := s.cache.InvalidateAssigned(ctx, userIDs...); err != nil {
		s.logger.WarnContext(ctx, "task cache invalidation failed", "users", userIDs, "error", err)
	}
}

// convertSubTasksFromProto keeps the client's order and ids, generating a
// time-ordered id where none was sent.
func convertSubTasksFromProto(in []*pronotev1.SubTask) ([]models.SubTask, error) {
	out := make([]models.SubTask, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, st := range in {
		if st == nil {
			return nil, status.Errorf(codes.InvalidArgument, "sub_tasks[%d] is empty", i)
		}
		id := st.ID
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				return nil, status.Error(codes.Internal, "failed to generate sub-task id")
			}
			id = v7.String()
		}
		if seen[id] {
			return nil, status.Errorf(codes.InvalidArgument, "duplicate sub-task id %q", id)
		}
		seen[id] = true
		out = append(out, models.SubTask{ID: id, Name: st.Name, Done: st.Done == 1})
	}
	return out, nil
}
