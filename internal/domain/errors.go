package domain

import "errors"

var (
	// ErrProductNotFound is returned when no product has the requested id
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidSortKey is returned for an unknown sort option
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSessionNotFound is returned when a browse session is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrComparisonFull is returned when a fourth product is added to a comparison
	ErrComparisonFull = errors.New("comparison set is full")

	// ErrInputNotFound is returned when the enrichment input file does not exist
	ErrInputNotFound = errors.New("input file not found")
)

// ComparisonFullNotice is the user-facing message shown when a comparison is rejected
const ComparisonFullNotice = "Você pode comparar no máximo 3 produtos ao mesmo tempo."
