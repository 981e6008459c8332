package brief

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// DefaultSchedule runs the brief at 6:30 AM local time every day.
const DefaultSchedule = "30 6 * * *"

// runTimeout bounds a single scheduled run.
const runTimeout = 30 * time.Minute

// Runner performs one brief.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler triggers a Runner on a cron schedule. Cron ticks and RunNow share
// one job, so a run never overlaps another; the later one is skipped.
type Scheduler struct {
	runner Runner
	cron   *cron.Cron
	job    cron.Job
	entry  cron.EntryID
	logger arbor.ILogger
}

// NewScheduler creates a scheduler for runner.
func NewScheduler(runner Runner, logger arbor.ILogger) *Scheduler {
	s := &Scheduler{
		runner: runner,
		cron:   cron.New(),
		logger: logger,
	}
	s.job = cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.runScheduled))
	return s
}

// Start registers the job with a standard five-field cron spec and starts
// the scheduler.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}

	id, err := s.cron.AddJob(spec, s.job)
	if err != nil {
		return err
	}
	s.entry = id

	s.cron.Start()
	s.logger.Info().
		Str("schedule", spec).
		Str("next_run", s.Next().Format(time.RFC3339)).
		Msg("Daily brief scheduler started")
	return nil
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunNow runs one brief immediately and returns when it is done. It is a
// no-op while a scheduled run is in progress.
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Running brief now")
	s.job.Run()
}

// Stop stops the scheduler and returns a context that is done once any
// running brief has finished.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info().Msg("Daily brief scheduler stopped")
	return ctx
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.logger.Info().Msg("Starting scheduled brief")
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled brief failed")
		return
	}
	s.logger.Info().Str("next_run", s.Next().Format(time.RFC3339)).Msg("Scheduled brief completed")
}
