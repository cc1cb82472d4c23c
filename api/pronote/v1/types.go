package pronotev1

// Timestamps travel as RFC 3339 strings; status and done flags as small
// integers (status 0 to do, 1 in progress, 2 completed; done 0 or 1).

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Job       string `json:"job"`
	CreatedAt string `json:"created_at,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Job       string `json:"job"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UpdateProfileRequest replaces the caller's profile. An empty Password
// keeps the current one.
type UpdateProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Job       string `json:"job"`
	Password  string `json:"password,omitempty"`
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type SubTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done int32  `json:"done"`
}

type Task struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	AssignedTo   string     `json:"assigned_to"`
	CreatedBy    string     `json:"created_by"`
	Deadline     string     `json:"deadline"`
	Status       int32      `json:"status"`
	StatusManual bool       `json:"status_manual"`
	SubTasks     []*SubTask `json:"sub_tasks"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
}

type Urgency struct {
	// Level is "none", "warning" or "critical".
	Level   string `json:"level"`
	Message string `json:"message,omitempty"`
	// Color is "orange", "red" or empty.
	Color string `json:"color,omitempty"`
}

type TaskView struct {
	Task          *Task    `json:"task"`
	DeadlineValid bool     `json:"deadline_valid"`
	DaysRemaining int32    `json:"days_remaining"`
	Overdue       bool     `json:"overdue"`
	Urgency       *Urgency `json:"urgency"`
}

type CreateTaskRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	Deadline    string     `json:"deadline"`
	SubTasks    []*SubTask `json:"sub_tasks"`
}

type TaskResponse struct {
	Task *Task `json:"task"`
}

type GetTaskRequest struct {
	ID string `json:"id"`
}

const (
	ScopeAssigned = "assigned"
	ScopeCreated  = "created"
)

type ListTasksRequest struct {
	// Scope is "assigned" (default) or "created".
	Scope string `json:"scope"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

// UpdateTaskRequest edits a task. Nil fields are left alone; SubTasks is
// applied only when ReplaceSubTasks is set.
type UpdateTaskRequest struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	AssignedTo      *string    `json:"assigned_to,omitempty"`
	Deadline        *string    `json:"deadline,omitempty"`
	ReplaceSubTasks bool       `json:"replace_sub_tasks"`
	SubTasks        []*SubTask `json:"sub_tasks,omitempty"`
}

type ToggleSubTaskRequest struct {
	TaskID    string `json:"task_id"`
	SubTaskID string `json:"sub_task_id"`
}

type ToggleSubTaskResponse struct {
	Task          *Task `json:"task"`
	StatusChanged bool  `json:"status_changed"`
}

type SetTaskStatusRequest struct {
	TaskID string `json:"task_id"`
	Status int32  `json:"status"`
}

type ResetTaskStatusRequest struct {
	TaskID string `json:"task_id"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DashboardResponse struct {
	Now   string      `json:"now"`
	Tasks []*TaskView `json:"tasks"`
}

type HistoryResponse struct {
	Now        string      `json:"now"`
	NotDone    []*TaskView `json:"not_done"`
	InProgress []*TaskView `json:"in_progress"`
	Completed  []*TaskView `json:"completed"`
	FailedToDo []*TaskView `json:"failed_to_do"`
}

type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	SentAt      string `json:"sent_at"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type ListConversationRequest struct {
	UserID string `json:"user_id"`
}

type ListConversationResponse struct {
	Messages []*Message `json:"messages"`
}
