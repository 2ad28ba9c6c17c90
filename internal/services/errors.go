package services

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned when a prediction is requested for a station
// without a trained profile
var ErrNotSupported = errors.New("predictions are only supported for Kalyani")

// InternalError wraps an unexpected failure during prediction
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsTransient returns true as model failures may clear on retry
func (e *InternalError) IsTransient() bool {
	return true
}
