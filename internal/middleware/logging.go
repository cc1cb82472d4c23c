package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs one line per call and turns handler panics into
// Internal errors.
type LoggingInterceptor struct {
	logger *slog.Logger
}

func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger}
}

func (l *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				l.logger.ErrorContext(ctx, "panic in handler",
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
			l.log(ctx, info.FullMethod, time.Since(start), err)
		}()

		return handler(ctx, req)
	}
}

func (l *LoggingInterceptor) log(ctx context.Context, method string, elapsed time.Duration, err error) {
	code := status.Code(err)
	client := GetClientInfoFromContext(ctx)

	attrs := []any{
		"method", method,
		"code", code.String(),
		"duration", elapsed,
		"peer", client.IPAddress,
	}

	switch code {
	case codes.OK:
		l.logger.InfoContext(ctx, "grpc call", attrs...)
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		l.logger.ErrorContext(ctx, "grpc call failed", append(attrs, "error", err)...)
	default:
		l.logger.WarnContext(ctx, "grpc call rejected", append(attrs, "error", err)...)
	}
}
