// Package store is the GORM-backed persistence layer. Services declare the
// capability interfaces they need; *DB satisfies all of them. The database
// is the sole synchronization point between requests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB wraps a gorm connection with entity accessors.
type DB struct {
	db *gorm.DB
}

// New creates a store around an open gorm connection.
func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// --- threads ---

// CreateThread inserts a new thread.
func (s *DB) CreateThread(ctx context.Context, t *models.Thread) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("store: create thread: %w", err)
	}
	return nil
}

// ThreadWithEmails loads a thread and its full email history.
func (s *DB) ThreadWithEmails(ctx context.Context, id string) (*models.Thread, error) {
	var t models.Thread
	err := s.db.WithContext(ctx).Preload("Emails").First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("thread", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load thread %s: %w", id, err)
	}
	return &t, nil
}

// ListWaitingThreads returns threads currently awaiting a reply, oldest
// wait first.
func (s *DB) ListWaitingThreads(ctx context.Context) ([]models.Thread, error) {
	var threads []models.Thread
	err := s.db.WithContext(ctx).
		Where("waiting_since IS NOT NULL").
		Order("waiting_since ASC").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("store: list waiting threads: %w", err)
	}
	return threads, nil
}

// AppendEmail inserts an email row. Emails are append-only; there is no
// update path.
func (s *DB) AppendEmail(ctx context.Context, e *models.Email) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("store: append email: %w", err)
	}
	return nil
}

// SetThreadWaiting writes the derived waiting fields, including clearing
// them to NULL.
func (s *DB) SetThreadWaiting(ctx context.Context, id string, on *string, since *time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", id).
		Select("WaitingOnEmail", "WaitingSince").
		Updates(models.Thread{WaitingOnEmail: on, WaitingSince: since}).Error
	if err != nil {
		return fmt.Errorf("store: set thread waiting %s: %w", id, err)
	}
	return nil
}

// --- suggestions ---

// CreateSuggestion inserts a new follow-up suggestion.
func (s *DB) CreateSuggestion(ctx context.Context, sug *models.FollowUpSuggestion) error {
	if err := s.db.WithContext(ctx).Create(sug).Error; err != nil {
		return fmt.Errorf("store: create suggestion: %w", err)
	}
	return nil
}

// SuggestionByID loads one suggestion.
func (s *DB) SuggestionByID(ctx context.Context, id string) (*models.FollowUpSuggestion, error) {
	var sug models.FollowUpSuggestion
	err := s.db.WithContext(ctx).First(&sug, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("suggestion", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load suggestion %s: %w", id, err)
	}
	return &sug, nil
}

// PendingSuggestion returns the thread's pending suggestion, or nil when
// there is none.
func (s *DB) PendingSuggestion(ctx context.Context, threadID string) (*models.FollowUpSuggestion, error) {
	var sug models.FollowUpSuggestion
	err := s.db.WithContext(ctx).
		Where("thread_id = ? AND status = ?", threadID, models.SuggestionPending).
		First(&sug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: pending suggestion for %s: %w", threadID, err)
	}
	return &sug, nil
}

// SetSuggestionStatus updates a suggestion's status only.
func (s *DB) SetSuggestionStatus(ctx context.Context, id, status string) error {
	res := s.db.WithContext(ctx).Model(&models.FollowUpSuggestion{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("store: set suggestion status %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("suggestion", id)
	}
	return nil
}

// --- decisions ---

// CreateDecision inserts a decision row. Decisions are never updated or
// deleted afterwards.
func (s *DB) CreateDecision(ctx context.Context, d *models.Decision) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("store: create decision: %w", err)
	}
	return nil
}

// DecisionByID loads one decision.
func (s *DB) DecisionByID(ctx context.Context, id string) (*models.Decision, error) {
	var d models.Decision
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("decision", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load decision %s: %w", id, err)
	}
	return &d, nil
}

// DecisionFilter narrows ListDecisions.
type DecisionFilter struct {
	IncludeSuperseded bool
	Query             string
	ProjectID         string
}

// ListDecisions returns decisions newest first. Unless IncludeSuperseded
// is set, any decision referenced by another decision's supersedes_id is
// excluded.
func (s *DB) ListDecisions(ctx context.Context, f DecisionFilter) ([]models.Decision, error) {
	q := s.db.WithContext(ctx).Model(&models.Decision{})
	if !f.IncludeSuperseded {
		q = q.Where("id NOT IN (SELECT supersedes_id FROM decisions WHERE supersedes_id IS NOT NULL)")
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("decision_text LIKE ? OR rationale LIKE ?", like, like)
	}
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	var out []models.Decision
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list decisions: %w", err)
	}
	return out, nil
}

// --- tasks ---

// CreateTask inserts a new task.
func (s *DB) CreateTask(ctx context.Context, t *models.Task) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("store: create task: %w", err)
	}
	return nil
}

// TaskByID loads one task.
func (s *DB) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load task %s: %w", id, err)
	}
	return &t, nil
}

// SaveTask writes back a loaded task in full.
func (s *DB) SaveTask(ctx context.Context, t *models.Task) error {
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("store: save task %s: %w", t.ID, err)
	}
	return nil
}

// Schedule windows for TaskFilter.Due.
const (
	DueToday   = "today"
	DueOverdue = "overdue"
	DueWeek    = "week"
)

// TaskFilter narrows ListTasks. Now anchors the schedule windows so
// filtering stays deterministic under test.
type TaskFilter struct {
	Status string
	Due    string
	Now    time.Time
}

// ListTasks returns tasks matching the filter, soonest due first, undated
// tasks last.
func (s *DB) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f.Due {
	case DueToday:
		q = q.Where("due_date >= ? AND due_date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	case DueOverdue:
		q = q.Where("due_date < ? AND status NOT IN ?", dayStart, []string{models.TaskCompleted, models.TaskCancelled})
	case DueWeek:
		q = q.Where("due_date >= ? AND due_date < ?", dayStart, dayStart.AddDate(0, 0, 7))
	}
	var out []models.Task
	if err := q.Order("due_date IS NULL, due_date ASC, created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	return out, nil
}

// --- push subscriptions ---

// UpsertSubscription registers a push endpoint. A second registration with
// the same endpoint updates keys and device metadata in place and
// reactivates the row; it never duplicates.
func (s *DB) UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "device_name", "active", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("store: upsert subscription: %w", err)
	}
	return nil
}

// DeactivateEndpoint marks the subscription for an endpoint inactive. The
// row is kept; delivery skips it.
func (s *DB) DeactivateEndpoint(ctx context.Context, endpoint string) error {
	res := s.db.WithContext(ctx).Model(&models.PushSubscription{}).
		Where("endpoint = ?", endpoint).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("store: deactivate endpoint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("subscription", endpoint)
	}
	return nil
}

// DeactivateSubscription marks one subscription inactive by ID.
func (s *DB) DeactivateSubscription(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&models.PushSubscription{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("store: deactivate subscription %s: %w", id, err)
	}
	return nil
}

// ActiveSubscriptions returns every subscription eligible for delivery.
func (s *DB) ActiveSubscriptions(ctx context.Context) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := s.db.WithContext(ctx).Where("active = ?", true).Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("store: active subscriptions: %w", err)
	}
	return subs, nil
}

// SubscriptionByEndpoint loads a subscription by its endpoint URL.
func (s *DB) SubscriptionByEndpoint(ctx context.Context, endpoint string) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("subscription", endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load subscription: %w", err)
	}
	return &sub, nil
}

// --- notifications ---

// CreateNotification inserts a notification row.
func (s *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("store: create notification: %w", err)
	}
	return nil
}

// ListNotifications returns notifications newest first.
func (s *DB) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Model(&models.Notification{})
	if unreadOnly {
		q = q.Where("`read` = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead flags one notification as read.
func (s *DB) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("store: mark notification read %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("notification", id)
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification as read.
func (s *DB) MarkAllNotificationsRead(ctx context.Context) error {
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("`read` = ?", false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("store: mark all notifications read: %w", err)
	}
	return nil
}

// LatestNotification returns the newest notification of a kind for a
// thread, or nil when none exists. The sweep uses this to avoid nagging
// about the same thread twice in one day.
func (s *DB) LatestNotification(ctx context.Context, threadID, kind string) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("thread_id = ? AND kind = ?", threadID, kind).
		Order("created_at DESC").
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest notification: %w", err)
	}
	return &n, nil
}
