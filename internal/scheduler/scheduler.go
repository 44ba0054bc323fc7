// Package scheduler runs periodic WAL and ledger maintenance.
package scheduler

//go:generate mockgen -source=scheduler.go -destination=mock_scheduler_test.go -package=scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/services"
	"github.com/sbilibin2017/gw-transfer-engine/internal/wal"
)

// Maintainer is implemented by services.RecoveryManager.
type Maintainer interface {
	CreateCheckpoint(ctx context.Context) error                                 // Writes a WAL checkpoint
	ArchiveLogs(ctx context.Context) (string, error)                            // Rotates the WAL
	VerifyConsistency(ctx context.Context) (*services.ConsistencyReport, error) // Audits balances
}

// Config holds cron specs. An empty spec disables the job.
type Config struct {
	CheckpointSchedule  string
	ArchiveSchedule     string
	ConsistencySchedule string
	JobTimeout          time.Duration
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	maintainer Maintainer
	config     Config
}

// zapCronLogger adapts the global zap logger to cron.Logger.
type zapCronLogger struct{}

func (zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.Debugw(msg, keysAndValues...)
}

func (zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New creates a scheduler. Panicking jobs are recovered and logged.
func New(m Maintainer, cfg Config) *Scheduler {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	l := zapCronLogger{}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	return &Scheduler{
		cron:       c,
		maintainer: m,
		config:     cfg,
	}
}

// Start registers the jobs and starts the cron scheduler.
// It returns the first registration error; already registered jobs keep running.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name     string
		schedule string
		run      func()
	}{
		{"checkpoint", s.config.CheckpointSchedule, s.Checkpoint},
		{"archive", s.config.ArchiveSchedule, s.Archive},
		{"consistency", s.config.ConsistencySchedule, s.Consistency},
	}

	var firstErr error
	for _, j := range jobs {
		if j.schedule == "" {
			logger.Log.Infow("job disabled", "job", j.name)
			continue
		}
		if _, err := s.cron.AddFunc(j.schedule, j.run); err != nil {
			logger.Log.Errorw("failed to schedule job", "job", j.name, "schedule", j.schedule, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Log.Infow("scheduled job", "job", j.name, "schedule", j.schedule)
	}

	s.cron.Start()
	return firstErr
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.config.JobTimeout)
}

// Checkpoint writes a WAL checkpoint marker.
func (s *Scheduler) Checkpoint() {
	ctx, cancel := s.jobContext()
	defer cancel()

	if err := s.maintainer.CreateCheckpoint(ctx); err != nil {
		logger.Log.Errorw("checkpoint job failed", "error", err)
		return
	}
	logger.Log.Infow("checkpoint job completed")
}

// Archive rotates the WAL. A busy log is retried on the next tick.
func (s *Scheduler) Archive() {
	ctx, cancel := s.jobContext()
	defer cancel()

	path, err := s.maintainer.ArchiveLogs(ctx)
	switch {
	case errors.Is(err, wal.ErrInFlight):
		logger.Log.Infow("archive job skipped, transfers in flight")
	case err != nil:
		logger.Log.Errorw("archive job failed", "error", err)
	default:
		logger.Log.Infow("archive job completed", "path", path)
	}
}

// Consistency audits the ledger. Inconsistencies are logged by the maintainer.
func (s *Scheduler) Consistency() {
	ctx, cancel := s.jobContext()
	defer cancel()

	report, err := s.maintainer.VerifyConsistency(ctx)
	if err != nil {
		logger.Log.Errorw("consistency job failed", "error", err)
		return
	}
	logger.Log.Infow("consistency job completed",
		"consistent", report.Consistent,
		"accounts", report.Accounts,
		"discrepancies", len(report.Discrepancies),
	)
}
