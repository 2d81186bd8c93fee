// Package decision owns the decision log and its supersession rules.
// Decisions are immutable: superseding one creates a new row pointing at
// the old, and "current" queries exclude any decision with a successor.
package decision

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/store"
	"go.uber.org/zap"
)

// Store is the persistence capability the decision log needs.
type Store interface {
	CreateDecision(ctx context.Context, d *models.Decision) error
	DecisionByID(ctx context.Context, id string) (*models.Decision, error)
	ListDecisions(ctx context.Context, f store.DecisionFilter) ([]models.Decision, error)
}

// Service wraps the store with validation and cycle checking.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates a decision Service.
func NewService(st Store, log *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("decision: store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log}, nil
}

// LogInput carries the fields for a new decision.
type LogInput struct {
	Text         string
	Rationale    string
	SupersedesID *string
	ProjectID    string
}

// Log records a decision. When SupersedesID is set, the target must exist
// and linking to it must not close a supersession cycle.
func (s *Service) Log(ctx context.Context, in LogInput) (*models.Decision, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fault.Validation("Decision text is required and must be a non-empty string")
	}

	if in.SupersedesID != nil {
		target, err := s.store.DecisionByID(ctx, *in.SupersedesID)
		if err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, target); err != nil {
			return nil, err
		}
	}

	d := &models.Decision{
		ID:           uuid.NewString(),
		DecisionText: strings.TrimSpace(in.Text),
		Rationale:    in.Rationale,
		SupersedesID: in.SupersedesID,
		ProjectID:    in.ProjectID,
	}
	if err := s.store.CreateDecision(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info("decision logged",
		zap.String("decision_id", d.ID),
		zap.Bool("supersedes", d.SupersedesID != nil))
	return d, nil
}

// maxChainDepth bounds the supersession walk as a backstop against
// corrupted data.
const maxChainDepth = 1000

// checkNoCycle walks the supersession chain upward from the target. IDs
// are generated server-side, so a fresh decision can never be part of a
// cycle; this guards the stored graph itself and rejects rather than
// looping forever if it has been corrupted.
func (s *Service) checkNoCycle(ctx context.Context, target *models.Decision) error {
	seen := map[string]bool{target.ID: true}
	cur := target
	for depth := 0; cur.SupersedesID != nil; depth++ {
		if depth >= maxChainDepth {
			return fault.Validationf("supersession chain from %s exceeds %d links", target.ID, maxChainDepth)
		}
		next, err := s.store.DecisionByID(ctx, *cur.SupersedesID)
		if err != nil {
			if fault.IsNotFound(err) {
				// Dangling link; the chain ends here.
				return nil
			}
			return err
		}
		if seen[next.ID] {
			return fault.Validationf("superseding %s would create a supersession cycle", target.ID)
		}
		seen[next.ID] = true
		cur = next
	}
	return nil
}

// Get loads one decision.
func (s *Service) Get(ctx context.Context, id string) (*models.Decision, error) {
	return s.store.DecisionByID(ctx, id)
}

// List returns decisions per the filter; by default only current ones.
func (s *Service) List(ctx context.Context, f store.DecisionFilter) ([]models.Decision, error) {
	return s.store.ListDecisions(ctx, f)
}
