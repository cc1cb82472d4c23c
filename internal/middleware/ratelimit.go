package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RateLimitInterceptor applies a token bucket per caller. Authenticated
// calls are keyed by user id, anonymous ones by peer address.
type RateLimitInterceptor struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimitInterceptor(requestsPerSecond float64, burst int, idleTTL time.Duration) *RateLimitInterceptor {
	if idleTTL <= 0 {
		idleTTL = 3 * time.Minute
	}
	return &RateLimitInterceptor{
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		idleTTL:  idleTTL,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *RateLimitInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if !rl.Allow(callerKey(ctx)) {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded, slow down")
		}
		return handler(ctx, req)
	}
}

// Allow reports whether key may make one more request now.
func (rl *RateLimitInterceptor) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops visitors idle for longer than idleTTL. Caller holds mu.
func (rl *RateLimitInterceptor) sweep(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimitInterceptor) visitorCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func callerKey(ctx context.Context) string {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return "user:" + id
	}
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}
