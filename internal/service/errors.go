package service

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gurkanbulca/pronote/internal/middleware"
	"github.com/gurkanbulca/pronote/internal/repository"
	"github.com/gurkanbulca/pronote/internal/taskstate"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

// toStatus converts a lower-layer error into a gRPC status. Errors that
// already carry a status pass through; unexpected ones are logged and
// reported as Internal with msg.
func toStatus(ctx context.Context, logger *slog.Logger, err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, taskstate.ErrSubTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, repository.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, taskstate.ErrTaskNotCompleted):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request deadline exceeded")
	}

	logger.ErrorContext(ctx, msg, "error", err)
	return status.Error(codes.Internal, msg)
}

func callerID(ctx context.Context) (string, error) {
	id, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "user not authenticated")
	}
	return id, nil
}
