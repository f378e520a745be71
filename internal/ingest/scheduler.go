package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner is the unit of work driven by the scheduler.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

// SchedulerState describes what the scheduler loop is doing.
type SchedulerState int32

const (
	StateIdle SchedulerState = iota
	StateRunning
	StateStopped
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Scheduler runs a job at a fixed interval with at most one run in flight.
// Ticks that arrive while a run is still executing are skipped, not queued:
// after each run exactly one buffered tick is drained, so a long run causes
// a gap in the series rather than a burst of catch-up runs.
type Scheduler struct {
	job        Runner
	interval   time.Duration
	runOnStart bool
	log        zerolog.Logger

	mu    sync.Mutex
	state SchedulerState

	stopOnce sync.Once
	stopped  chan struct{}
}

func NewScheduler(job Runner, interval time.Duration, runOnStart bool, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		job:        job,
		interval:   interval,
		runOnStart: runOnStart,
		stopped:    make(chan struct{}),
		log:        log,
	}
}

// Start blocks, running the job every interval until ctx is cancelled or
// Stop is called. A run already in flight when the stop signal arrives is
// allowed to finish; no new run starts afterwards.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Bool("run_on_start", s.runOnStart).Msg("scheduler started")

	if s.runOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown("context cancelled")
			return
		case <-s.stopped:
			s.shutdown("stop requested")
			return
		case <-ticker.C:
			// A stop that raced the tick wins; never start a new run after
			// the stop signal.
			select {
			case <-ctx.Done():
				s.shutdown("context cancelled")
				return
			case <-s.stopped:
				s.shutdown("stop requested")
				return
			default:
			}

			s.runOnce(ctx)

			// Drop the single tick that may have accumulated during a run
			// longer than the interval. Ticker's channel has capacity one,
			// so one drain is enough.
			select {
			case <-ticker.C:
				s.log.Warn().Msg("run exceeded interval, skipping tick")
			default:
			}
		}
	}
}

// Stop signals the scheduler to exit. Safe to call multiple times and from
// any goroutine. Start returns once any in-flight run completes.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// State returns the scheduler's current state.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.setState(StateRunning)
	defer s.setState(StateIdle)

	if _, err := s.job.Run(ctx); err != nil {
		// Run only errors on unrecordable attempts; recorded failures come
		// back as results.
		s.log.Error().Err(err).Msg("ingestion run could not be recorded")
	}
}

func (s *Scheduler) setState(state SchedulerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Scheduler) shutdown(reason string) {
	s.setState(StateStopped)
	s.log.Info().Str("reason", reason).Msg("scheduler stopped")
}
