// Package task owns the task lifecycle: manual creation, the split
// status-only/field-update transition paths, and promotion of approved
// follow-up suggestions into tracked tasks.
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/store"
	"go.uber.org/zap"
)

// Store is the task persistence capability.
type Store interface {
	CreateTask(ctx context.Context, t *models.Task) error
	TaskByID(ctx context.Context, id string) (*models.Task, error)
	SaveTask(ctx context.Context, t *models.Task) error
	ListTasks(ctx context.Context, f store.TaskFilter) ([]models.Task, error)
}

// SuggestionStore is the slice of suggestion persistence promotion needs.
type SuggestionStore interface {
	SuggestionByID(ctx context.Context, id string) (*models.FollowUpSuggestion, error)
	SetSuggestionStatus(ctx context.Context, id, status string) error
}

// Service validates and applies task operations.
type Service struct {
	tasks       Store
	suggestions SuggestionStore
	log         *zap.Logger
	now         func() time.Time
}

// Opts holds parameters for creating a Service.
type Opts struct {
	Tasks       Store
	Suggestions SuggestionStore // optional; promotion disabled when nil
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewService creates a task Service.
func NewService(opts Opts) (*Service, error) {
	if opts.Tasks == nil {
		return nil, fmt.Errorf("task: task store is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{tasks: opts.Tasks, suggestions: opts.Suggestions, log: log, now: now}, nil
}

var (
	validStatuses   = []string{models.TaskTodo, models.TaskInProgress, models.TaskCompleted, models.TaskCancelled}
	validPriorities = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
)

func validStatus(s string) bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func validPriority(p string) bool {
	for _, v := range validPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	Title        string
	Description  string
	Priority     string
	Status       string
	DueDate      string // RFC 3339 or YYYY-MM-DD
	SuggestionID *string
}

// Create validates input and inserts a new task. No placeholder row is
// written when validation fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fault.Validation("Title is required and must be a non-empty string")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	} else if !validPriority(priority) {
		return nil, fault.Enum("priority", priority, validPriorities...)
	}
	status := in.Status
	if status == "" {
		status = models.TaskTodo
	} else if !validStatus(status) {
		return nil, fault.Enum("status", status, validStatuses...)
	}
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	t := &models.Task{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  in.Description,
		Priority:     priority,
		Status:       status,
		DueDate:      due,
		SuggestionID: in.SuggestionID,
	}
	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("task created", zap.String("task_id", t.ID), zap.String("priority", t.Priority))
	return t, nil
}

// Patch carries a partial update. Nil means "not supplied", which is
// what decides between the status-only and field-update paths.
type Patch struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	Status      *string
}

// hasFields reports whether any non-status field is supplied.
func (p Patch) hasFields() bool {
	return p.Title != nil || p.Description != nil || p.Priority != nil || p.DueDate != nil
}

// Update applies a patch to a task. The two request shapes are disjoint:
// a bare status takes the status-only path, while the presence of any
// other field routes the whole request through the field-update path
// (which also applies a supplied status). An empty patch is rejected.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*models.Task, error) {
	if !p.hasFields() && p.Status == nil {
		return nil, fault.Validation("no fields to update")
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return nil, fault.Enum("status", *p.Status, validStatuses...)
	}
	if p.Priority != nil && !validPriority(*p.Priority) {
		return nil, fault.Enum("priority", *p.Priority, validPriorities...)
	}

	t, err := s.tasks.TaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.hasFields() {
		// Status-only path. All states are mutually reachable; setting a
		// completed task back to todo is an explicit reopen.
		t.Status = *p.Status
		if err := s.tasks.SaveTask(ctx, t); err != nil {
			return nil, err
		}
		return t, nil
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fault.Validation("Title is required and must be a non-empty string")
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			due, err := parseDueDate(*p.DueDate)
			if err != nil {
				return nil, err
			}
			t.DueDate = due
		}
	}
	if p.Status != nil {
		t.Status = *p.Status
	}

	if err := s.tasks.SaveTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get loads one task.
func (s *Service) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.tasks.TaskByID(ctx, id)
}

// List returns tasks filtered by status and schedule window.
func (s *Service) List(ctx context.Context, status, due string) ([]models.Task, error) {
	if status != "" && !validStatus(status) {
		return nil, fault.Enum("status", status, validStatuses...)
	}
	switch due {
	case "", store.DueToday, store.DueOverdue, store.DueWeek:
	default:
		return nil, fault.Enum("due", due, store.DueToday, store.DueOverdue, store.DueWeek)
	}
	return s.tasks.ListTasks(ctx, store.TaskFilter{Status: status, Due: due, Now: s.now()})
}

// PromoteInput overrides draft-derived fields during promotion.
type PromoteInput struct {
	Title    string
	Priority string
	DueDate  string
}

// PromoteSuggestion approves a pending follow-up suggestion and creates a
// linked task from it in one flow. Title defaults to the draft subject.
func (s *Service) PromoteSuggestion(ctx context.Context, suggestionID string, in PromoteInput) (*models.Task, error) {
	if s.suggestions == nil {
		return nil, fmt.Errorf("task: suggestion store not configured")
	}
	sug, err := s.suggestions.SuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	if sug.Status != models.SuggestionPending {
		return nil, fault.Validationf("suggestion %s is already %s", suggestionID, sug.Status)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = sug.DraftSubject
	}
	created, err := s.Create(ctx, CreateInput{
		Title:        title,
		Description:  sug.DraftBody,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		SuggestionID: &sug.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.suggestions.SetSuggestionStatus(ctx, sug.ID, models.SuggestionApproved); err != nil {
		return nil, err
	}
	s.log.Info("suggestion promoted to task",
		zap.String("suggestion_id", sug.ID),
		zap.String("task_id", created.ID))
	return created, nil
}

// parseDueDate accepts RFC 3339 or a bare date; "" means no due date.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return &ts, nil
	}
	return nil, fault.Validationf("invalid due_date %q: use RFC 3339 or YYYY-MM-DD", raw)
}
