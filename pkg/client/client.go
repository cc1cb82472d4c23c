// Package client is the Go SDK for the Pronote gRPC API. It keeps the
// signed-in session, attaches the bearer token to every call and refreshes
// an expired access token once before giving up.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
)

var ErrNotSignedIn = errors.New("not signed in")

// Session is the signed-in state. A nil *Session means signed out.
type Session struct {
	User         *pronotev1.User `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

type Client struct {
	conn     *grpc.ClientConn
	auth     pronotev1.AuthServiceClient
	tasks    pronotev1.TaskServiceClient
	messages pronotev1.MessageServiceClient
	now      func() time.Time

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(*Session)
	nextID    int
}

// Dial connects to target. Without dial options the connection is
// plaintext.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	c := New(conn)
	c.conn = conn
	return c, nil
}

// New wraps an existing connection, which the caller keeps owning.
func New(cc grpc.ClientConnInterface) *Client {
	return &Client{
		auth:      pronotev1.NewAuthServiceClient(cc),
		tasks:     pronotev1.NewTaskServiceClient(cc),
		messages:  pronotev1.NewMessageServiceClient(cc),
		now:       time.Now,
		listeners: make(map[int]func(*Session)),
	}
}

// Close closes a connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// SetSession replaces the session, e.g. with one restored from disk, and
// notifies listeners.
func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	if s != nil {
		cp := *s
		s = &cp
	}
	c.session = s
	c.mu.Unlock()

	c.notify(s)
}

// OnSessionChange registers fn to run after every sign-in, token refresh
// and sign-out. The returned func removes it.
func (c *Client) OnSessionChange(fn func(*Session)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) notify(s *Session) {
	c.mu.Lock()
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		var cp *Session
		if s != nil {
			v := *s
			cp = &v
		}
		fn(cp)
	}
}

func (c *Client) startSession(resp *pronotev1.AuthResponse) *Session {
	s := &Session{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	c.SetSession(s)
	return c.Session()
}

func (c *Client) Register(ctx context.Context, req *pronotev1.RegisterRequest) (*Session, error) {
	resp, err := c.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.startSession(resp), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.auth.Login(ctx, &pronotev1.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return c.startSession(resp), nil
}

// Logout revokes the refresh token server-side and clears the session. The
// local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := call(c, ctx, func(ctx context.Context) (*emptypb.Empty, error) {
		return c.auth.Logout(ctx, &emptypb.Empty{})
	})
	c.SetSession(nil)
	if errors.Is(err, ErrNotSignedIn) {
		return nil
	}
	return err
}

// Refresh trades the refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	current := c.Session()
	if current == nil || current.RefreshToken == "" {
		return ErrNotSignedIn
	}

	resp, err := c.auth.RefreshToken(ctx, &pronotev1.RefreshTokenRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return err
	}

	current.AccessToken = resp.AccessToken
	current.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	c.SetSession(current)
	return nil
}

func (c *Client) authorize(ctx context.Context) (context.Context, error) {
	s := c.Session()
	if s == nil || s.AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+s.AccessToken), nil
}

// call runs fn with the bearer token attached. An Unauthenticated answer
// triggers one refresh and retry.
func call[T any](c *Client, ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	authed, err := c.authorize(ctx)
	if err != nil {
		return zero, err
	}
	out, err := fn(authed)
	if status.Code(err) != codes.Unauthenticated {
		return out, err
	}

	if rerr := c.Refresh(ctx); rerr != nil {
		return zero, err
	}
	authed, aerr := c.authorize(ctx)
	if aerr != nil {
		return zero, aerr
	}
	return fn(authed)
}

func (c *Client) Profile(ctx context.Context) (*pronotev1.User, error) {
	return call(c, ctx, func(ctx context.Context) (*pronotev1.User, error) {
		return c.auth.GetProfile(ctx, &emptypb.Empty{})
	})
}

func (c *Client) UpdateProfile(ctx context.Context, req *pronotev1.UpdateProfileRequest) (*pronotev1.User, error) {
	return call(c, ctx, func(ctx context.Context) (*pronotev1.User, error) {
		return c.auth.UpdateProfile(ctx, req)
	})
}

func (c *Client) Users(ctx context.Context) ([]*pronotev1.User, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.ListUsersResponse, error) {
		return c.auth.ListUsers(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) CreateTask(ctx context.Context, req *pronotev1.CreateTaskRequest) (*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.TaskResponse, error) {
		return c.tasks.CreateTask(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.TaskResponse, error) {
		return c.tasks.GetTask(ctx, &pronotev1.GetTaskRequest{ID: id})
	})
	if err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) ListTasks(ctx context.Context, scope string) ([]*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.ListTasksResponse, error) {
		return c.tasks.ListTasks(ctx, &pronotev1.ListTasksRequest{Scope: scope})
	})
	if err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) UpdateTask(ctx context.Context, req *pronotev1.UpdateTaskRequest) (*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.TaskResponse, error) {
		return c.tasks.UpdateTask(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) ToggleSubTask(ctx context.Context, taskID, subTaskID string) (*pronotev1.ToggleSubTaskResponse, error) {
	return call(c, ctx, func(ctx context.Context) (*pronotev1.ToggleSubTaskResponse, error) {
		return c.tasks.ToggleSubTask(ctx, &pronotev1.ToggleSubTaskRequest{TaskID: taskID, SubTaskID: subTaskID})
	})
}

func (c *Client) SetTaskStatus(ctx context.Context, taskID string, value int32) (*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.TaskResponse, error) {
		return c.tasks.SetTaskStatus(ctx, &pronotev1.SetTaskStatusRequest{TaskID: taskID, Status: value})
	})
	if err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) ResetTaskStatus(ctx context.Context, taskID string) (*pronotev1.Task, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.TaskResponse, error) {
		return c.tasks.ResetTaskStatus(ctx, &pronotev1.ResetTaskStatusRequest{TaskID: taskID})
	})
	if err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := call(c, ctx, func(ctx context.Context) (*emptypb.Empty, error) {
		return c.tasks.DeleteTask(ctx, &pronotev1.DeleteTaskRequest{ID: id})
	})
	return err
}

func (c *Client) Dashboard(ctx context.Context) (*pronotev1.DashboardResponse, error) {
	return call(c, ctx, func(ctx context.Context) (*pronotev1.DashboardResponse, error) {
		return c.tasks.GetDashboard(ctx, &emptypb.Empty{})
	})
}

func (c *Client) History(ctx context.Context) (*pronotev1.HistoryResponse, error) {
	return call(c, ctx, func(ctx context.Context) (*pronotev1.HistoryResponse, error) {
		return c.tasks.GetHistory(ctx, &emptypb.Empty{})
	})
}

func (c *Client) SendMessage(ctx context.Context, recipientID, content string) (*pronotev1.Message, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.MessageResponse, error) {
		return c.messages.SendMessage(ctx, &pronotev1.SendMessageRequest{RecipientID: recipientID, Content: content})
	})
	if err != nil {
		return nil, err
	}
	return resp.Message, nil
}

func (c *Client) Conversation(ctx context.Context, userID string) ([]*pronotev1.Message, error) {
	resp, err := call(c, ctx, func(ctx context.Context) (*pronotev1.ListConversationResponse, error) {
		return c.messages.ListConversation(ctx, &pronotev1.ListConversationRequest{UserID: userID})
	})
	if err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
