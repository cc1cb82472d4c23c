package pronotev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	TaskService_CreateTask_FullMethodName      = "/pronote.v1.TaskService/CreateTask"
	TaskService_GetTask_FullMethodName         = "/pronote.v1.TaskService/GetTask"
	TaskService_ListTasks_FullMethodName       = "/pronote.v1.TaskService/ListTasks"
	TaskService_UpdateTask_FullMethodName      = "/pronote.v1.TaskService/UpdateTask"
	TaskService_ToggleSubTask_FullMethodName   = "/pronote.v1.TaskService/ToggleSubTask"
	TaskService_SetTaskStatus_FullMethodName   = "/pronote.v1.TaskService/SetTaskStatus"
	TaskService_ResetTaskStatus_FullMethodName = "/pronote.v1.TaskService/ResetTaskStatus"
	TaskService_DeleteTask_FullMethodName      = "/pronote.v1.TaskService/DeleteTask"
	TaskService_GetDashboard_FullMethodName    = "/pronote.v1.TaskService/GetDashboard"
	TaskService_GetHistory_FullMethodName      = "/pronote.v1.TaskService/GetHistory"
)

type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*TaskResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*TaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*TaskResponse, error)
	ToggleSubTask(context.Context, *ToggleSubTaskRequest) (*ToggleSubTaskResponse, error)
	SetTaskStatus(context.Context, *SetTaskStatusRequest) (*TaskResponse, error)
	ResetTaskStatus(context.Context, *ResetTaskStatusRequest) (*TaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*emptypb.Empty, error)
	GetDashboard(context.Context, *emptypb.Empty) (*DashboardResponse, error)
	GetHistory(context.Context, *emptypb.Empty) (*HistoryResponse, error)
}

var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pronote.v1.TaskService",
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTask", Handler: unaryHandler(TaskService_CreateTask_FullMethodName, TaskServiceServer.CreateTask)},
		{MethodName: "GetTask", Handler: unaryHandler(TaskService_GetTask_FullMethodName, TaskServiceServer.GetTask)},
		{MethodName: "ListTasks", Handler: unaryHandler(TaskService_ListTasks_FullMethodName, TaskServiceServer.ListTasks)},
		{MethodName: "UpdateTask", Handler: unaryHandler(TaskService_UpdateTask_FullMethodName, TaskServiceServer.UpdateTask)},
		{MethodName: "ToggleSubTask", Handler: unaryHandler(TaskService_ToggleSubTask_FullMethodName, TaskServiceServer.ToggleSubTask)},
		{MethodName: "SetTaskStatus", Handler: unaryHandler(TaskService_SetTaskStatus_FullMethodName, TaskServiceServer.SetTaskStatus)},
		{MethodName: "ResetTaskStatus", Handler: unaryHandler(TaskService_ResetTaskStatus_FullMethodName, TaskServiceServer.ResetTaskStatus)},
		{MethodName: "DeleteTask", Handler: unaryHandler(TaskService_DeleteTask_FullMethodName, TaskServiceServer.DeleteTask)},
		{MethodName: "GetDashboard", Handler: unaryHandler(TaskService_GetDashboard_FullMethodName, TaskServiceServer.GetDashboard)},
		{MethodName: "GetHistory", Handler: unaryHandler(TaskService_GetHistory_FullMethodName, TaskServiceServer.GetHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pronote/v1/task",
}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}

type TaskServiceClient interface {
	CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error)
	GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error)
	ToggleSubTask(ctx context.Context, in *ToggleSubTaskRequest, opts ...grpc.CallOption) (*ToggleSubTaskResponse, error)
	SetTaskStatus(ctx context.Context, in *SetTaskStatusRequest, opts ...grpc.CallOption) (*TaskResponse, error)
	ResetTaskStatus(ctx context.Context, in *ResetTaskStatusRequest, opts ...grpc.CallOption) (*TaskResponse, error)
	DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DashboardResponse, error)
	GetHistory(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*HistoryResponse, error)
}

type taskServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskServiceClient(cc grpc.ClientConnInterface) TaskServiceClient {
	return &taskServiceClient{cc}
}

func (c *taskServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, TaskService_CreateTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, TaskService_GetTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, TaskService_ListTasks_FullMethodName, in, opts)
}

func (c *taskServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, TaskService_UpdateTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) ToggleSubTask(ctx context.Context, in *ToggleSubTaskRequest, opts ...grpc.CallOption) (*ToggleSubTaskResponse, error) {
	return invoke[ToggleSubTaskResponse](ctx, c.cc, TaskService_ToggleSubTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) SetTaskStatus(ctx context.Context, in *SetTaskStatusRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, TaskService_SetTaskStatus_FullMethodName, in, opts)
}

func (c *taskServiceClient) ResetTaskStatus(ctx context.Context, in *ResetTaskStatusRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskResponse](ctx, c.cc, TaskService_ResetTaskStatus_FullMethodName, in, opts)
}

func (c *taskServiceClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, TaskService_DeleteTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DashboardResponse, error) {
	return invoke[DashboardResponse](ctx, c.cc, TaskService_GetDashboard_FullMethodName, in, opts)
}

func (c *taskServiceClient) GetHistory(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, TaskService_GetHistory_FullMethodName, in, opts)
}
