package service

import "time"

// RetryPolicy bounds the optimistic-concurrency retry loop. Backoff maps a
// 1-based attempt number to the pause taken before re-reading.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy retries three times with a linearly growing pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 50 * time.Millisecond
		},
	}
}
