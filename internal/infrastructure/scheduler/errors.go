package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobNotFound is returned when a job name is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRegistered is returned when two jobs share a name
	ErrJobAlreadyRegistered = errors.New("job already registered")

	// ErrJobBusy is returned when a manual trigger hits a job that is still running
	ErrJobBusy = errors.New("job is already running")

	// ErrInvalidConfig is returned when a job is registered with a non-positive interval
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
