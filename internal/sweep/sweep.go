// Package sweep runs the scheduled waiting-thread check. On each run it
// scans threads that are waiting on a reply, and dispatches a reminder for
// every thread past the configured threshold, at most once per day per
// thread.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/kingcader/attache/internal/classify"
	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/push"
	"go.uber.org/zap"
)

// ThreadStore is the thread-scanning capability.
type ThreadStore interface {
	ListWaitingThreads(ctx context.Context) ([]models.Thread, error)
	LatestNotification(ctx context.Context, threadID, kind string) (*models.Notification, error)
}

// Dispatcher delivers a reminder to all subscribers.
type Dispatcher interface {
	Dispatch(ctx context.Context, note push.Note) (*push.Receipt, error)
}

// Summary reports one sweep run.
type Summary struct {
	Scanned  int
	Notified int
	Skipped  int
}

// Sweeper scans waiting threads and sends reminders.
type Sweeper struct {
	threads    ThreadStore
	dispatcher Dispatcher
	cronExpr   string
	minDays    int
	log        *zap.Logger
}

// Opts holds parameters for creating a Sweeper.
type Opts struct {
	Threads    ThreadStore
	Dispatcher Dispatcher
	Config     config.SweepConfig
	Logger     *zap.Logger
}

// New creates a Sweeper.
func New(opts Opts) (*Sweeper, error) {
	if opts.Threads == nil {
		return nil, fmt.Errorf("sweep: thread store is required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("sweep: dispatcher is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		threads:    opts.Threads,
		dispatcher: opts.Dispatcher,
		cronExpr:   opts.Config.Cron,
		minDays:    opts.Config.MinDaysWaiting,
		log:        log,
	}, nil
}

// Run executes one sweep at the given reference time. A thread is notified
// when it has been waiting at least the configured number of days and no
// waiting reminder for it was already sent on the same calendar day.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (*Summary, error) {
	threads, err := s.threads.ListWaitingThreads(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Scanned: len(threads)}
	for _, thread := range threads {
		if thread.WaitingSince == nil {
			summary.Skipped++
			continue
		}
		days := classify.DaysWaiting(now, *thread.WaitingSince)
		if days < s.minDays {
			summary.Skipped++
			continue
		}

		last, err := s.threads.LatestNotification(ctx, thread.ID, models.NoteWaiting)
		if err != nil {
			s.log.Error("sweep: load last reminder", zap.String("thread", thread.ID), zap.Error(err))
			summary.Skipped++
			continue
		}
		if last != nil && sameDay(last.CreatedAt, now) {
			summary.Skipped++
			continue
		}

		waitingOn := "the recipient"
		if thread.WaitingOnEmail != nil && *thread.WaitingOnEmail != "" {
			waitingOn = *thread.WaitingOnEmail
		}
		threadID := thread.ID
		_, err = s.dispatcher.Dispatch(ctx, push.Note{
			Title:    fmt.Sprintf("Still waiting: %s", thread.Subject),
			Body:     fmt.Sprintf("No reply from %s for %d day(s)", waitingOn, days),
			Kind:     models.NoteWaiting,
			ThreadID: &threadID,
		})
		if err != nil {
			s.log.Error("sweep: dispatch reminder", zap.String("thread", thread.ID), zap.Error(err))
			summary.Skipped++
			continue
		}
		summary.Notified++
		s.log.Info("waiting reminder sent",
			zap.String("thread", thread.ID),
			zap.Int("days_waiting", days))
	}
	return summary, nil
}

// Start blocks, firing Run on the configured cron schedule until the
// context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.cronExpr == "" {
		return fmt.Errorf("sweep: cron expression is required")
	}
	if nextCronDuration(s.cronExpr) == 0 {
		return fmt.Errorf("sweep: invalid cron expression %q", s.cronExpr)
	}

	timer := time.NewTimer(nextCronDuration(s.cronExpr))
	defer timer.Stop()

	s.log.Info("sweep scheduler started",
		zap.String("cron", s.cronExpr),
		zap.Int("min_days", s.minDays))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timerChan(timer):
			if summary, err := s.Run(ctx, time.Now()); err != nil {
				s.log.Error("sweep run failed", zap.Error(err))
			} else {
				s.log.Info("sweep run complete",
					zap.Int("scanned", summary.Scanned),
					zap.Int("notified", summary.Notified),
					zap.Int("skipped", summary.Skipped))
			}
			if d := nextCronDuration(s.cronExpr); d > 0 {
				timer.Reset(d)
			}
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
