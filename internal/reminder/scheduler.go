// Package reminder polls the store for tasks whose reminder window has
// opened or whose due date has passed, and emits each notification exactly
// once per reminder configuration.
package reminder

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/store"
)

// DefaultInterval is how often the scheduler rescans the store.
const DefaultInterval = 30 * time.Second

// TaskSource is the scheduler's view of the store: it reads snapshots and
// writes nothing but reminder-sent markers.
type TaskSource interface {
	Snapshot() store.Snapshot
	MarkReminderSent(id string)
}

// Notifier receives scheduler emissions.
type Notifier interface {
	DueSoon(task domain.Task)
	Overdue(task domain.Task)
}

// Scheduler runs the periodic reminder scan. Start is idempotent and meant
// to be called lazily from a store observer on the first command.
type Scheduler struct {
	source   TaskSource
	notifier Notifier
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() int64

	started atomic.Bool
}

// New builds a scheduler scanning every interval.
func New(source TaskSource, notifier Notifier, interval time.Duration, logger *zap.Logger) *Scheduler {
	// The cron spec is whole seconds; anything finer would render "@every 0s".
	if interval <= 0 {
		interval = DefaultInterval
	} else if interval < time.Second {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		source:   source,
		notifier: notifier,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
		now:      domain.NowMillis,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() {
		s.Scan(s.now())
	}); err != nil {
		logger.Error("failed to schedule reminder scan",
			zap.String("schedule", schedule),
			zap.Error(err))
	}

	return s
}

// SetClock overrides the scan clock. Intended for tests.
func (s *Scheduler) SetClock(now func() int64) {
	if now != nil {
		s.now = now
	}
}

// Start runs an immediate scan and arms the recurring timer. Subsequent
// calls are no-ops, so it can ride on every store notification. The guard is
// an atomic flag, not sync.Once: the immediate scan marks reminders sent,
// which re-enters Start through the observer chain.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.Scan(s.now())
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
}

// Stop cancels the recurring timer and waits for a running scan, bounded by
// ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil || !s.started.Load() {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("reminder scheduler stopped")
}

// Scan walks every task once. A task is skipped when completed, without a
// due date, with its reminder disabled, or already notified. Inside the
// reminder window it fires "due soon"; past the due date it fires "overdue".
// Either way the sent marker is the only store write.
func (s *Scheduler) Scan(now int64) {
	snap := s.source.Snapshot()
	for _, t := range snap.Tasks.Ordered() {
		if t.Completed || t.DueDate == 0 || !t.Reminder.Enabled || t.Reminder.SentAt != 0 {
			continue
		}

		switch {
		case now >= t.ReminderTime() && now < t.DueDate:
			s.logger.Debug("reminder due soon", zap.String("task_id", t.ID))
			s.notifier.DueSoon(t)
			s.source.MarkReminderSent(t.ID)
		case now >= t.DueDate:
			s.logger.Debug("reminder overdue", zap.String("task_id", t.ID))
			s.notifier.Overdue(t)
			s.source.MarkReminderSent(t.ID)
		}
	}
}
