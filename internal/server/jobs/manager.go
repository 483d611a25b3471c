// Package jobs runs the server's periodic background work.
package jobs

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"

	"github.com/dmitrijs2005/folio/internal/logging"
)

// Job is a named unit of periodic work.
type Job interface {
	Name() string
	Schedule() gocron.JobDefinition
	Execute(ctx context.Context)
}

// Manager owns the scheduler. Jobs run once at start and then on their
// schedule; a run that is still going when the next is due is rescheduled.
type Manager struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	logger    logging.Logger
}

func NewManager(logger logging.Logger) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With("module", "jobs"),
	}, nil
}

// Register adds job to the scheduler.
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.Schedule(),
		gocron.NewTask(func() { job.Execute(m.ctx) }),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	m.logger.Info(m.ctx, "job registered", "job", job.Name())
	return nil
}

func (m *Manager) Start() {
	m.scheduler.Start()
	m.logger.Info(m.ctx, "job manager started", "jobs", len(m.scheduler.Jobs()))
}

// Stop cancels running jobs and waits for them to return.
func (m *Manager) Stop() {
	m.cancel()
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Error(context.Background(), "scheduler shutdown failed", "error", err)
	}
	m.logger.Info(context.Background(), "job manager stopped")
}
