// Package followup orchestrates AI-backed follow-up drafting for threads
// awaiting a reply, and owns the suggestion lifecycle.
package followup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/classify"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/llm"
	"github.com/kingcader/attache/internal/models"
	"go.uber.org/zap"
)

// ThreadStore is the thread persistence capability the orchestrator needs.
type ThreadStore interface {
	ThreadWithEmails(ctx context.Context, id string) (*models.Thread, error)
}

// SuggestionStore is the suggestion persistence capability.
type SuggestionStore interface {
	CreateSuggestion(ctx context.Context, s *models.FollowUpSuggestion) error
	SuggestionByID(ctx context.Context, id string) (*models.FollowUpSuggestion, error)
	PendingSuggestion(ctx context.Context, threadID string) (*models.FollowUpSuggestion, error)
	SetSuggestionStatus(ctx context.Context, id, status string) error
}

// Service drives the drafting flow: classify, prompt, generate, validate,
// persist. Every failure path leaves zero rows behind.
type Service struct {
	threads     ThreadStore
	suggestions SuggestionStore
	backend     llm.Backend
	log         *zap.Logger
	now         func() time.Time
}

// Opts holds parameters for creating a Service.
type Opts struct {
	Threads     ThreadStore
	Suggestions SuggestionStore
	Backend     llm.Backend
	Logger      *zap.Logger      // defaults to zap.NewNop()
	Now         func() time.Time // defaults to time.Now
}

// NewService creates a Service with the given options.
func NewService(opts Opts) (*Service, error) {
	if opts.Threads == nil {
		return nil, fmt.Errorf("followup: thread store is required")
	}
	if opts.Suggestions == nil {
		return nil, fmt.Errorf("followup: suggestion store is required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("followup: backend is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		threads:     opts.Threads,
		suggestions: opts.Suggestions,
		backend:     opts.Backend,
		log:         log,
		now:         now,
	}, nil
}

// Generate drafts a follow-up for the thread and persists it as a pending
// suggestion. The thread must be in waiting-on status, recomputed from its
// emails at call time. Exactly one suggestion row is created per
// successful call; no failure path writes anything.
func (s *Service) Generate(ctx context.Context, threadID string) (*models.FollowUpSuggestion, error) {
	thread, err := s.threads.ThreadWithEmails(ctx, threadID)
	if err != nil {
		return nil, err
	}

	status := classify.Classify(thread.Emails)
	if !status.Waiting {
		return nil, fault.Validation("thread is not in waiting-on status")
	}

	if pending, err := s.suggestions.PendingSuggestion(ctx, threadID); err != nil {
		return nil, err
	} else if pending != nil {
		return nil, fault.Conflict(fmt.Sprintf("thread %s already has a pending suggestion", threadID))
	}

	days := classify.DaysWaiting(s.now(), *status.WaitingSince)
	userMessage := buildContext(thread, days)

	raw, err := s.backend.Generate(ctx, systemPrompt, userMessage)
	if err != nil {
		s.log.Warn("generation backend failed",
			zap.String("thread_id", threadID),
			zap.String("provider", s.backend.Name()),
			zap.Error(err))
		return nil, fault.Upstream(s.backend.Name(), err)
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		s.log.Warn("generation result rejected",
			zap.String("thread_id", threadID),
			zap.String("provider", s.backend.Name()),
			zap.Error(err))
		return nil, fault.Upstream(s.backend.Name(), err)
	}

	sug := &models.FollowUpSuggestion{
		ID:           uuid.NewString(),
		ThreadID:     threadID,
		DraftSubject: draft.Subject,
		DraftBody:    draft.Body,
		Tone:         draft.Tone,
		Status:       models.SuggestionPending,
		Reasoning:    draft.Reasoning,
		AIModelUsed:  s.backend.Model(),
	}
	if err := s.suggestions.CreateSuggestion(ctx, sug); err != nil {
		return nil, err
	}

	s.log.Info("follow-up suggestion created",
		zap.String("thread_id", threadID),
		zap.String("suggestion_id", sug.ID),
		zap.String("tone", sug.Tone),
		zap.Int("days_waiting", days))
	return sug, nil
}

// Suggestion resolution actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Resolve terminalizes a pending suggestion. Approved and rejected are
// terminal: resolving twice is a validation error, not an overwrite.
func (s *Service) Resolve(ctx context.Context, id, action string) (*models.FollowUpSuggestion, error) {
	var target string
	switch action {
	case ActionApprove:
		target = models.SuggestionApproved
	case ActionReject:
		target = models.SuggestionRejected
	default:
		return nil, fault.Enum("action", action, ActionApprove, ActionReject)
	}

	sug, err := s.suggestions.SuggestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sug.Status != models.SuggestionPending {
		return nil, fault.Validationf("suggestion %s is already %s", id, sug.Status)
	}

	if err := s.suggestions.SetSuggestionStatus(ctx, id, target); err != nil {
		return nil, err
	}
	sug.Status = target
	return sug, nil
}
