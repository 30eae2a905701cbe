package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic event-log drain. Drains are fire-and-forget
// with respect to callers; a failed drain leaves events queued for the
// next tick.
type Scheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
	drainFunc func(ctx context.Context) error
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// SetDrainFunction sets the function invoked on every tick.
func (s *Scheduler) SetDrainFunction(f func(ctx context.Context) error) {
	s.drainFunc = f
}

// Start registers the drain job with the given cron spec and starts the
// scheduler.
func (s *Scheduler) Start(spec string) error {
	if s.drainFunc == nil {
		s.logger.Warn("drain function not set, scheduler will not drain events")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("triggered scheduled event drain", zap.String("spec", spec))
		if err := s.drainFunc(s.ctx); err != nil {
			s.logger.Error("scheduled drain failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", spec))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Info("scheduler stopped")
}

// IsRunning reports whether the scheduler has registered jobs.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
