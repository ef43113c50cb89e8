// Package scheduler runs background maintenance jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name implements Job
func (f JobFunc) Name() string { return f.JobName }

// Run implements Job
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// JobState is a snapshot of a registered job
type JobState struct {
	Name        string        `json:"name"`
	Interval    time.Duration `json:"interval"`
	Status      JobStatus     `json:"status"`
	Runs        int           `json:"runs"`
	Failures    int           `json:"failures"`
	LastError   string        `json:"last_error,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// Config holds runner configuration
type Config struct {
	JobTimeout time.Duration
	// RunOnStart runs every job once immediately when the runner starts
	RunOnStart bool
}

type entry struct {
	job      Job
	interval time.Duration
	state    JobState
	running  bool
}

// Scheduler runs registered jobs each on its own ticker. A job never
// overlaps with itself; a tick that fires while the previous run is still
// going is skipped.
type Scheduler struct {
	config Config
	logger *zap.Logger

	mu        sync.Mutex
	entries   map[string]*entry
	order     []string
	cancel    context.CancelFunc
	ctx       context.Context
	wg        sync.WaitGroup
	isRunning bool
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 5 * time.Minute
	}
	return &Scheduler{
		config:  config,
		logger:  logger.Named("scheduler"),
		entries: make(map[string]*entry),
	}
}

// Register adds a job that runs every interval. Jobs must be registered
// before Start.
func (s *Scheduler) Register(job Job, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval for %q must be positive", ErrInvalidConfig, job.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[job.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, job.Name())
	}
	s.entries[job.Name()] = &entry{
		job:      job,
		interval: interval,
		state:    JobState{Name: job.Name(), Interval: interval, Status: JobStatusPending},
	}
	s.order = append(s.order, job.Name())
	return nil
}

// Start launches one loop per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	s.ctx, s.cancel = context.WithCancel(ctx)
	for _, name := range s.order {
		e := s.entries[name]
		s.wg.Add(1)
		go s.loop(s.ctx, e)
	}

	s.logger.Info("Scheduler started", zap.Strings("jobs", s.order))
	return nil
}

// Stop cancels all loops and waits for running jobs or until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger runs a job immediately and waits for it to finish
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	e, ok := s.entries[name]
	ctx := s.ctx
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	ran, err := s.run(ctx, e)
	if !ran {
		return ErrJobBusy
	}
	return err
}

// States returns a snapshot of every registered job in registration order
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]JobState, 0, len(s.order))
	for _, name := range s.order {
		states = append(states, s.entries[name].state)
	}
	return states
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		_, _ = s.run(ctx, e)
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ran, _ := s.run(ctx, e); !ran {
				s.logger.Warn("Skipping tick, previous run still in progress", zap.String("job", e.job.Name()))
			}
		}
	}
}

// run executes the job unless it is already running. It reports whether the
// job was started.
func (s *Scheduler) run(ctx context.Context, e *entry) (bool, error) {
	s.mu.Lock()
	if e.running {
		s.mu.Unlock()
		return false, nil
	}
	e.running = true
	started := time.Now()
	e.state.Status = JobStatusRunning
	e.state.StartedAt = &started
	s.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.safeRun(jobCtx, e.job)
	completed := time.Now()

	s.mu.Lock()
	e.running = false
	e.state.Runs++
	e.state.CompletedAt = &completed
	if err != nil {
		e.state.Status = JobStatusFailed
		e.state.Failures++
		e.state.LastError = err.Error()
	} else {
		e.state.Status = JobStatusSuccess
		e.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", e.job.Name()),
			zap.Duration("elapsed", completed.Sub(started)),
			zap.Error(err),
		)
	} else {
		s.logger.Debug("Job completed",
			zap.String("job", e.job.Name()),
			zap.Duration("elapsed", completed.Sub(started)),
		)
	}
	return true, err
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx)
}
