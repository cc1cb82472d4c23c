package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/internal/repository"
)

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ListConversation(ctx context.Context, userA, userB string) ([]*models.Message, error)
}

// MessageService stores and reads direct messages. Delivery is pull-based:
// clients poll ListConversation.
type MessageService struct {
	messages MessageStore
	users    UserLookup
	logger   *slog.Logger
}

func NewMessageService(messages MessageStore, users UserLookup, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{
		messages: messages,
		users:    users,
		logger:   logger.With("service", "message"),
	}
}

func (s *MessageService) SendMessage(ctx context.Context, req *pronotev1.SendMessageRequest) (*pronotev1.MessageResponse, error) {
	senderID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}
	if req.RecipientID == senderID {
		return nil, status.Error(codes.InvalidArgument, "cannot message yourself")
	}
	if err := s.checkUser(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     content,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to send message")
	}

	return &pronotev1.MessageResponse{Message: convertMessageToProto(m)}, nil
}

// ListConversation returns every message between the caller and another
// user, oldest first.
func (s *MessageService) ListConversation(ctx context.Context, req *pronotev1.ListConversationRequest) (*pronotev1.ListConversationResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListConversation(ctx, userID, req.UserID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to list messages")
	}

	resp := &pronotev1.ListConversationResponse{Messages: make([]*pronotev1.Message, len(messages))}
	for i, m := range messages {
		resp.Messages[i] = convertMessageToProto(m)
	}
	return resp, nil
}

func (s *MessageService) checkUser(ctx context.Context, id string) error {
	if id == "" {
		return status.Error(codes.InvalidArgument, "user id is required")
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return status.Error(codes.NotFound, "user not found")
		}
		return toStatus(ctx, s.logger, err, "failed to look up user")
	}
	return nil
}
