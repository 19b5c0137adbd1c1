// internal/store/errors.go
package store

import "errors"

var (
	ErrNotFound  = errors.New("SUBMISSION_NOT_FOUND")
	ErrThrottled = errors.New("SUBMISSION_THROTTLED")
)
