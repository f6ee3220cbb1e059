// Package ratelimit decides whether an incoming GraphQL operation may run.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is consulted before each operation is executed. LimitQuery
// returns true when the operation must be rejected.
type RateLimiter interface {
	LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool
}

// TokenBucket admits operations at a steady rate with a bounded burst,
// shared by every client of the gateway.
type TokenBucket struct {
	limiter *rate.Limiter
}

var _ RateLimiter = (*TokenBucket)(nil)

// New returns a TokenBucket admitting perSecond operations on average. A
// burst below one is raised to one.
func New(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (b *TokenBucket) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return !b.limiter.Allow()
}
