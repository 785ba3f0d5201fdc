package ratelimit

import (
	"context"
	"time"
)

// Limits caps requests per sliding window. A zero field disables that window.
type Limits struct {
	PerMinute int
	PerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
