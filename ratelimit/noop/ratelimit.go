package noop

import (
	"context"

	"github.com/gqlgate/gqlgate/ratelimit"
)

// RateLimiter admits every operation.
type RateLimiter struct{}

var _ ratelimit.RateLimiter = (*RateLimiter)(nil)

func (r *RateLimiter) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return false
}
