package scheduler

import "errors"

var (
	// ErrInvalidJob is returned when a job is missing a name, interval, or run function
	ErrInvalidJob = errors.New("invalid job definition")

	// ErrSchedulerRunning is returned when registering a job on a started scheduler
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)
