package errors

import "errors"

var (
	ErrNotFound     = errors.New("no data for request")
	ErrRateLimited  = errors.New("provider rate limit exceeded")
	ErrUnauthorized = errors.New("provider rejected credentials")
	ErrCacheMiss    = errors.New("cache entry not found")
)
