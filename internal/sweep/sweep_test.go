package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/push"
	"github.com/kingcader/attache/internal/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) *store.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Thread{},
		&models.Email{},
		&models.PushSubscription{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return store.New(gdb)
}

func testSweeper(t *testing.T, st *store.DB, minDays int) (*Sweeper, *push.MockSender) {
	t.Helper()
	sender := push.NewMockSender()
	dispatcher, err := push.NewDispatcher(push.DispatcherOpts{
		Subscriptions: st,
		Notifications: st,
		Sender:        sender,
		Logger:        zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	s, err := New(Opts{
		Threads:    st,
		Dispatcher: dispatcher,
		Config:     config.SweepConfig{Cron: "0 8 * * *", MinDaysWaiting: minDays},
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	return s, sender
}

func seedWaitingThread(t *testing.T, st *store.DB, id string, waitingSince time.Time) {
	t.Helper()
	email := "bob@example.com"
	err := st.CreateThread(context.Background(), &models.Thread{
		ID:             id,
		Subject:        "Invoice " + id,
		WaitingOnEmail: &email,
		WaitingSince:   &waitingSince,
	})
	if err != nil {
		t.Fatalf("seed thread %s: %v", id, err)
	}
}

func TestRun_NotifiesThreadsPastThreshold(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	seedWaitingThread(t, st, "t-old", now.AddDate(0, 0, -5))
	seedWaitingThread(t, st, "t-fresh", now.AddDate(0, 0, -1))

	summary, err := s.Run(ctx, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Scanned != 2 || summary.Notified != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want scanned 2 notified 1 skipped 1", summary)
	}

	notes, err := st.ListNotifications(ctx, false)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notification count = %d, want 1", len(notes))
	}
	if notes[0].Kind != models.NoteWaiting {
		t.Errorf("kind = %q, want %q", notes[0].Kind, models.NoteWaiting)
	}
	if notes[0].ThreadID == nil || *notes[0].ThreadID != "t-old" {
		t.Errorf("thread id = %v, want t-old", notes[0].ThreadID)
	}
	if notes[0].Body != "No reply from bob@example.com for 5 day(s)" {
		t.Errorf("body = %q", notes[0].Body)
	}
}

func TestRun_ExactThresholdNotifies(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	seedWaitingThread(t, st, "t-1", now.AddDate(0, 0, -3))

	summary, err := s.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Notified != 1 {
		t.Errorf("notified = %d, want 1 (threshold is inclusive)", summary.Notified)
	}
}

func TestRun_AtMostOneReminderPerDay(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)
	ctx := context.Background()
	now := time.Now() // reminder rows carry real timestamps

	seedWaitingThread(t, st, "t-1", now.AddDate(0, 0, -4))

	if _, err := s.Run(ctx, now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := s.Run(ctx, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Notified != 0 || summary.Skipped != 1 {
		t.Errorf("second run summary = %+v, want deduplicated", summary)
	}

	notes, _ := st.ListNotifications(ctx, false)
	if len(notes) != 1 {
		t.Errorf("notification count = %d, want 1", len(notes))
	}
}

func TestRun_RemindsAgainNextDay(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)
	ctx := context.Background()
	now := time.Now().AddDate(0, 0, 1) // reminder rows carry today's CreatedAt

	seedWaitingThread(t, st, "t-1", now.AddDate(0, 0, -4))

	if _, err := s.Run(ctx, time.Now()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := s.Run(ctx, now)
	if err != nil {
		t.Fatalf("next-day run: %v", err)
	}
	if summary.Notified != 1 {
		t.Errorf("next-day notified = %d, want 1", summary.Notified)
	}
}

func TestRun_DeliversToSubscribers(t *testing.T) {
	st := openTestStore(t)
	s, sender := testSweeper(t, st, 2)
	ctx := context.Background()
	now := time.Now()

	sub := &models.PushSubscription{
		ID: "sub-1", Endpoint: "https://p.example/1",
		P256dh: "k", Auth: "a", Active: true,
	}
	if err := st.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	seedWaitingThread(t, st, "t-1", now.AddDate(0, 0, -2))

	if _, err := s.Run(ctx, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := sender.SentTo(); len(got) != 1 || got[0] != "https://p.example/1" {
		t.Errorf("sent to = %v, want the one subscriber", got)
	}
}

func TestRun_NoWaitingThreads(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)

	summary, err := s.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Scanned != 0 || summary.Notified != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
}

func TestStart_RejectsInvalidCron(t *testing.T) {
	st := openTestStore(t)
	s, _ := testSweeper(t, st, 3)
	s.cronExpr = "not a cron"

	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestNextCronDuration(t *testing.T) {
	if d := nextCronDuration("0 8 * * *"); d <= 0 || d > 24*time.Hour {
		t.Errorf("duration = %v, want within 24h", d)
	}
	if d := nextCronDuration("bogus"); d != 0 {
		t.Errorf("duration for bad expr = %v, want 0", d)
	}
}
