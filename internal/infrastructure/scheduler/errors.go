package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when an operation requires a running scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	// ErrInvalidConfig is returned when the scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
