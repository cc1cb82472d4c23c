package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

var nameRegex = regexp.MustCompile(`^[\p{L}\s'.-]+$`)

// ValidationConfig holds request size limits.
type ValidationConfig struct {
	MaxEmailLength       int
	MaxNameLength        int
	MaxJobLength         int
	MaxTaskNameLength    int
	MaxDescriptionLength int
	MaxSubTasks          int
	MaxSubTaskIDLength   int
	MaxMessageLength     int
}

func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxEmailLength:       255,
		MaxNameLength:        100,
		MaxJobLength:         100,
		MaxTaskNameLength:    200,
		MaxDescriptionLength: 5000,
		MaxSubTasks:          100,
		MaxSubTaskIDLength:   64,
		MaxMessageLength:     4000,
	}
}

// ValidationInterceptor rejects malformed requests with InvalidArgument
// before they reach a service.
type ValidationInterceptor struct {
	config    *ValidationConfig
	passwords *auth.PasswordManager
}

func NewValidationInterceptor(config *ValidationConfig) *ValidationInterceptor {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &ValidationInterceptor{
		config:    config,
		passwords: auth.NewPasswordManager(),
	}
}

func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := v.validateRequest(req); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// errorList collects field problems into one InvalidArgument status.
type errorList []string

func (e *errorList) add(format string, args ...any) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

func (e errorList) err() error {
	if len(e) == 0 {
		return nil
	}
	return status.Error(codes.InvalidArgument, strings.Join(e, "; "))
}

func (v *ValidationInterceptor) validateRequest(req interface{}) error {
	switch r := req.(type) {
	case *pronotev1.RegisterRequest:
		return v.validateRegisterRequest(r)
	case *pronotev1.LoginRequest:
		return v.validateLoginRequest(r)
	case *pronotev1.RefreshTokenRequest:
		if r.RefreshToken == "" {
			return status.Error(codes.InvalidArgument, "refresh_token is required")
		}
	case *pronotev1.UpdateProfileRequest:
		return v.validateUpdateProfileRequest(r)
	case *pronotev1.CreateTaskRequest:
		return v.validateCreateTaskRequest(r)
	case *pronotev1.GetTaskRequest:
		return v.validateID(r.ID, "id")
	case *pronotev1.ListTasksRequest:
		if r.Scope != "" && r.Scope != pronotev1.ScopeAssigned && r.Scope != pronotev1.ScopeCreated {
			return status.Errorf(codes.InvalidArgument, "scope must be %q or %q", pronotev1.ScopeAssigned, pronotev1.ScopeCreated)
		}
	case *pronotev1.UpdateTaskRequest:
		return v.validateUpdateTaskRequest(r)
	case *pronotev1.ToggleSubTaskRequest:
		var errs errorList
		v.checkID(&errs, r.TaskID, "task_id")
		if r.SubTaskID == "" {
			errs.add("sub_task_id is required")
		}
		return errs.err()
	case *pronotev1.SetTaskStatusRequest:
		var errs errorList
		v.checkID(&errs, r.TaskID, "task_id")
		if _, err := models.ParseStatus(r.Status); err != nil {
			errs.add("status: %v", err)
		}
		return errs.err()
	case *pronotev1.ResetTaskStatusRequest:
		return v.validateID(r.TaskID, "task_id")
	case *pronotev1.DeleteTaskRequest:
		return v.validateID(r.ID, "id")
	case *pronotev1.SendMessageRequest:
		var errs errorList
		v.checkID(&errs, r.RecipientID, "recipient_id")
		content := strings.TrimSpace(r.Content)
		if content == "" {
			errs.add("content is required")
		} else if len(content) > v.config.MaxMessageLength {
			errs.add("content too long (max %d characters)", v.config.MaxMessageLength)
		}
		return errs.err()
	case *pronotev1.ListConversationRequest:
		return v.validateID(r.UserID, "user_id")
	}

	return nil
}

func (v *ValidationInterceptor) validateRegisterRequest(req *pronotev1.RegisterRequest) error {
	var errs errorList
	v.checkEmail(&errs, req.Email)
	if err := v.passwords.ValidatePassword(req.Password); err != nil {
		errs.add("password: %v", err)
	}
	v.checkName(&errs, req.FirstName, "first_name", true)
	v.checkName(&errs, req.LastName, "last_name", true)
	if len(req.Job) > v.config.MaxJobLength {
		errs.add("job too long (max %d characters)", v.config.MaxJobLength)
	}
	return errs.err()
}

func (v *ValidationInterceptor) validateLoginRequest(req *pronotev1.LoginRequest) error {
	var errs errorList
	if req.Email == "" {
		errs.add("email is required")
	} else if len(req.Email) > v.config.MaxEmailLength {
		errs.add("email too long (max %d characters)", v.config.MaxEmailLength)
	}
	if req.Password == "" {
		errs.add("password is required")
	}
	return errs.err()
}

func (v *ValidationInterceptor) validateUpdateProfileRequest(req *pronotev1.UpdateProfileRequest) error {
	var errs errorList
	v.checkEmail(&errs, req.Email)
	v.checkName(&errs, req.FirstName, "first_name", true)
	v.checkName(&errs, req.LastName, "last_name", true)
	if len(req.Job) > v.config.MaxJobLength {
		errs.add("job too long (max %d characters)", v.config.MaxJobLength)
	}
	if req.Password != "" {
		if err := v.passwords.ValidatePassword(req.Password); err != nil {
			errs.add("password: %v", err)
		}
	}
	return errs.err()
}

func (v *ValidationInterceptor) validateCreateTaskRequest(req *pronotev1.CreateTaskRequest) error {
	var errs errorList
	v.checkTaskName(&errs, req.Name)
	if len(req.Description) > v.config.MaxDescriptionLength {
		errs.add("description too long (max %d characters)", v.config.MaxDescriptionLength)
	}
	v.checkID(&errs, req.AssignedTo, "assigned_to")
	v.checkDeadline(&errs, req.Deadline)
	v.checkSubTasks(&errs, req.SubTasks)
	return errs.err()
}

func (v *ValidationInterceptor) validateUpdateTaskRequest(req *pronotev1.UpdateTaskRequest) error {
	var errs errorList
	v.checkID(&errs, req.ID, "id")
	if req.Name != nil {
		v.checkTaskName(&errs, *req.Name)
	}
	if req.Description != nil && len(*req.Description) > v.config.MaxDescriptionLength {
		errs.add("description too long (max %d characters)", v.config.MaxDescriptionLength)
	}
	if req.AssignedTo != nil {
		v.checkID(&errs, *req.AssignedTo, "assigned_to")
	}
	if req.Deadline != nil {
		v.checkDeadline(&errs, *req.Deadline)
	}
	if req.ReplaceSubTasks {
		v.checkSubTasks(&errs, req.SubTasks)
	} else if len(req.SubTasks) > 0 {
		errs.add("sub_tasks given without replace_sub_tasks")
	}
	return errs.err()
}

func (v *ValidationInterceptor) validateID(id, field string) error {
	var errs errorList
	v.checkID(&errs, id, field)
	return errs.err()
}

func (v *ValidationInterceptor) checkID(errs *errorList, id, field string) {
	if id == "" {
		errs.add("%s is required", field)
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		errs.add("%s must be a valid id", field)
	}
}

func (v *ValidationInterceptor) checkEmail(errs *errorList, email string) {
	if email == "" {
		errs.add("email is required")
		return
	}
	if len(email) > v.config.MaxEmailLength {
		errs.add("email too long (max %d characters)", v.config.MaxEmailLength)
		return
	}
	if _, err := auth.NormalizeEmail(email); err != nil {
		errs.add("email: invalid format")
	}
}

func (v *ValidationInterceptor) checkName(errs *errorList, name, field string, required bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		if required {
			errs.add("%s is required", field)
		}
	case len(name) > v.config.MaxNameLength:
		errs.add("%s too long (max %d characters)", field, v.config.MaxNameLength)
	case !nameRegex.MatchString(name):
		errs.add("%s contains invalid characters", field)
	}
}

func (v *ValidationInterceptor) checkTaskName(errs *errorList, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		errs.add("name is required")
	} else if len(name) > v.config.MaxTaskNameLength {
		errs.add("name too long (max %d characters)", v.config.MaxTaskNameLength)
	}
}

func (v *ValidationInterceptor) checkDeadline(errs *errorList, raw string) {
	if strings.TrimSpace(raw) == "" {
		errs.add("deadline is required")
		return
	}
	if !models.ParseDeadline(raw).Valid {
		errs.add("deadline must be an ISO-8601 timestamp")
	}
}

func (v *ValidationInterceptor) checkSubTasks(errs *errorList, subTasks []*pronotev1.SubTask) {
	if len(subTasks) > v.config.MaxSubTasks {
		errs.add("too many sub_tasks (max %d)", v.config.MaxSubTasks)
		return
	}

	seen := make(map[string]bool, len(subTasks))
	for i, st := range subTasks {
		if st == nil {
			errs.add("sub_tasks[%d] is empty", i)
			continue
		}
		if strings.TrimSpace(st.Name) == "" {
			errs.add("sub_tasks[%d].name is required", i)
		} else if len(st.Name) > v.config.MaxTaskNameLength {
			errs.add("sub_tasks[%d].name too long (max %d characters)", i, v.config.MaxTaskNameLength)
		}
		if len(st.ID) > v.config.MaxSubTaskIDLength {
			errs.add("sub_tasks[%d].id too long (max %d characters)", i, v.config.MaxSubTaskIDLength)
		}
		if st.ID != "" {
			if seen[st.ID] {
				errs.add("sub_tasks[%d].id %q is duplicated", i, st.ID)
			}
			seen[st.ID] = true
		}
		if st.Done != 0 && st.Done != 1 {
			errs.add("sub_tasks[%d].done must be 0 or 1", i)
		}
	}
}
