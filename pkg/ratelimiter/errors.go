package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrRateLimited       = errors.New("ratelimiter: rate limit exceeded")
)
