package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

func captureHandler(got *context.Context) grpc.UnaryHandler {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		*got = ctx
		return "ok", nil
	}
}

func info(method string) *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: method}
}

func TestMetadataExtractor(t *testing.T) {
	ctx := peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP("10.1.2.3"), Port: 5555},
	})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("user-agent", "pronotectl/1.0"))

	var got context.Context
	_, err := NewMetadataExtractorInterceptor().Unary()(ctx, nil, info("/x/Y"), captureHandler(&got))
	require.NoError(t, err)

	ci := GetClientInfoFromContext(got)
	assert.Equal(t, "10.1.2.3", ci.IPAddress)
	assert.Equal(t, "pronotectl/1.0", ci.UserAgent)
	assert.Empty(t, ci.UserID)
}

func TestAuthInterceptor(t *testing.T) {
	tm := auth.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	pair, err := tm.GenerateTokenPair("user-1", "a@example.com")
	require.NoError(t, err)

	interceptor := NewAuthInterceptor(tm).Unary()

	t.Run("public method passes without token", func(t *testing.T) {
		var got context.Context
		_, err := interceptor(context.Background(), nil, info(pronotev1.AuthService_Login_FullMethodName), captureHandler(&got))
		require.NoError(t, err)
		_, ok := GetUserIDFromContext(got)
		assert.False(t, ok)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer nope"},
		{"refresh token used as access", "Bearer " + pair.RefreshToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := metadata.MD{}
			if tt.header != "" {
				md.Set("authorization", tt.header)
			}
			ctx := metadata.NewIncomingContext(context.Background(), md)

			var got context.Context
			_, err := interceptor(ctx, nil, info(pronotev1.TaskService_GetDashboard_FullMethodName), captureHandler(&got))
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Nil(t, got)
		})
	}

	t.Run("valid token sets identity", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(),
			metadata.Pairs("authorization", "Bearer "+pair.AccessToken))

		var got context.Context
		_, err := interceptor(ctx, nil, info(pronotev1.TaskService_GetDashboard_FullMethodName), captureHandler(&got))
		require.NoError(t, err)

		id, ok := GetUserIDFromContext(got)
		assert.True(t, ok)
		assert.Equal(t, "user-1", id)
		email, _ := GetUserEmailFromContext(got)
		assert.Equal(t, "a@example.com", email)
	})
}

func TestValidationInterceptor(t *testing.T) {
	v := NewValidationInterceptor(nil)
	id := uuid.NewString()
	name := "  "

	tests := []struct {
		name    string
		req     interface{}
		wantErr string
	}{
		{"valid register", &pronotev1.RegisterRequest{Email: "a@b.co", Password: "secret123", FirstName: "Ada", LastName: "Lovelace"}, ""},
		{"register bad email", &pronotev1.RegisterRequest{Email: "nope", Password: "secret123", FirstName: "Ada", LastName: "L"}, "email"},
		{"register weak password", &pronotev1.RegisterRequest{Email: "a@b.co", Password: "short", FirstName: "Ada", LastName: "L"}, "password"},
		{"register missing names", &pronotev1.RegisterRequest{Email: "a@b.co", Password: "secret123"}, "first_name is required"},
		{"login empty", &pronotev1.LoginRequest{}, "email is required"},
		{"valid create", &pronotev1.CreateTaskRequest{Name: "Report", AssignedTo: id, Deadline: "2030-01-01T00:00:00Z",
			SubTasks: []*pronotev1.SubTask{{ID: "s1", Name: "draft"}, {Name: "send"}}}, ""},
		{"create bad deadline", &pronotev1.CreateTaskRequest{Name: "Report", AssignedTo: id, Deadline: "tomorrow"}, "deadline"},
		{"create bad assignee", &pronotev1.CreateTaskRequest{Name: "Report", AssignedTo: "bob", Deadline: "2030-01-01T00:00:00Z"}, "assigned_to"},
		{"create duplicate sub-task ids", &pronotev1.CreateTaskRequest{Name: "Report", AssignedTo: id, Deadline: "2030-01-01T00:00:00Z",
			SubTasks: []*pronotev1.SubTask{{ID: "s1", Name: "a"}, {ID: "s1", Name: "b"}}}, "duplicated"},
		{"create bad done flag", &pronotev1.CreateTaskRequest{Name: "Report", AssignedTo: id, Deadline: "2030-01-01T00:00:00Z",
			SubTasks: []*pronotev1.SubTask{{Name: "a", Done: 3}}}, "done must be 0 or 1"},
		{"update blank name", &pronotev1.UpdateTaskRequest{ID: id, Name: &name}, "name is required"},
		{"update sub-tasks without replace", &pronotev1.UpdateTaskRequest{ID: id, SubTasks: []*pronotev1.SubTask{{Name: "x"}}}, "replace_sub_tasks"},
		{"update clear sub-tasks", &pronotev1.UpdateTaskRequest{ID: id, ReplaceSubTasks: true}, ""},
		{"status out of range", &pronotev1.SetTaskStatusRequest{TaskID: id, Status: 3}, "status"},
		{"toggle missing sub-task", &pronotev1.ToggleSubTaskRequest{TaskID: id}, "sub_task_id"},
		{"list bad scope", &pronotev1.ListTasksRequest{Scope: "all"}, "scope"},
		{"blank message", &pronotev1.SendMessageRequest{RecipientID: id, Content: "   "}, "content is required"},
		{"unknown type passes", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.validateRequest(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
			assert.Contains(t, status.Convert(err).Message(), tt.wantErr)
		})
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimitInterceptor(1, 2, time.Minute)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("ip:a"))
	assert.True(t, rl.Allow("ip:a"))
	assert.False(t, rl.Allow("ip:a"))
	assert.True(t, rl.Allow("ip:b"), "buckets are per caller")

	clock = clock.Add(time.Second)
	assert.True(t, rl.Allow("ip:a"), "one token refilled")

	clock = clock.Add(2 * time.Minute)
	rl.Allow("ip:c")
	assert.Equal(t, 1, rl.visitorCount(), "idle visitors are evicted")

	t.Run("interceptor returns ResourceExhausted", func(t *testing.T) {
		strict := NewRateLimitInterceptor(0.001, 1, time.Minute)
		ctx := WithUser(context.Background(), "u1", "u1@example.com")
		var got context.Context

		_, err := strict.Unary()(ctx, nil, info("/x/Y"), captureHandler(&got))
		require.NoError(t, err)
		_, err = strict.Unary()(ctx, nil, info("/x/Y"), captureHandler(&got))
		assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	})
}

func TestLoggingInterceptor_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	interceptor := NewLoggingInterceptor(logger).Unary()

	resp, err := interceptor(context.Background(), nil, info("/x/Boom"), func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "panic in handler")
	assert.Contains(t, buf.String(), `"code":"Internal"`)

	buf.Reset()
	_, err = interceptor(context.Background(), nil, info("/x/Fine"), func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"method":"/x/Fine"`)
	assert.Contains(t, buf.String(), `"code":"OK"`)
}
