package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/recordlog"
)

// Interaction types counted by the weekly patterns
const (
	TypeReachedOut  = "reached-out"
	TypeTheyReached = "they-reached"
)

const patternWindow = 7 * 24 * time.Hour

// InteractionForm is the tracker's add form
type InteractionForm struct {
	Person      string
	Type        string
	Description string
	Energy      string
}

// WeeklyPatterns summarises the last seven days of interactions
type WeeklyPatterns struct {
	YouReachedOut  int
	TheyReachedOut int
	Insight        string
}

// TrackerState is a snapshot of the tracker page
type TrackerState struct {
	Category     string
	Interactions []*record.Record
	Total        int
	Types        []content.InteractionType
	Patterns     WeeklyPatterns
}

// TrackerService is the relationship interaction log of one session
type TrackerService struct {
	deps Deps
	log  *recordlog.Log
}

// NewTrackerService creates the interaction log of owner
func NewTrackerService(deps Deps, owner string) *TrackerService {
	return &TrackerService{
		deps: deps,
		log: recordlog.NewLog(deps.Records, deps.IDs, owner, record.KindInteraction,
			deps.Catalog.InteractionTypeIDs(), recordlog.WithClock(deps.now)),
	}
}

// Add logs an interaction
func (s *TrackerService) Add(ctx context.Context, form InteractionForm) (*record.Record, error) {
	return s.log.Add(ctx, record.Draft{
		Category: form.Type,
		Subject:  form.Person,
		Text:     form.Description,
		Energy:   record.Energy(form.Energy),
	})
}

// Count returns the number of logged interactions
func (s *TrackerService) Count(ctx context.Context) (int, error) {
	return s.log.Count(ctx)
}

// Label returns the human label of an interaction type
func (s *TrackerService) Label(typeID string) string {
	return s.deps.Catalog.InteractionLabel(typeID)
}

// Patterns counts who reached out during the last seven days
func (s *TrackerService) Patterns(ctx context.Context) (WeeklyPatterns, error) {
	recent, err := s.log.Since(ctx, s.deps.now().Add(-patternWindow))
	if err != nil {
		return WeeklyPatterns{}, err
	}

	var p WeeklyPatterns
	for r := range recent {
		switch r.Category {
		case TypeReachedOut:
			p.YouReachedOut++
		case TypeTheyReached:
			p.TheyReachedOut++
		}
	}
	p.Insight = s.deps.Selector.Pick(s.deps.Catalog.TrackerInsights)
	return p, nil
}

// State returns the page snapshot filtered by category ("all" or empty
// for everything)
func (s *TrackerService) State(ctx context.Context, category string) (TrackerState, error) {
	if category == "" {
		category = recordlog.AllCategories
	}
	seq, err := s.log.FilterByCategory(ctx, category)
	if err != nil {
		return TrackerState{}, fmt.Errorf("failed to filter interactions: %w", err)
	}
	total, err := s.log.Count(ctx)
	if err != nil {
		return TrackerState{}, fmt.Errorf("failed to count interactions: %w", err)
	}
	patterns, err := s.Patterns(ctx)
	if err != nil {
		return TrackerState{}, fmt.Errorf("failed to compute patterns: %w", err)
	}

	return TrackerState{
		Category:     category,
		Interactions: slices.Collect(seq),
		Total:        total,
		Types:        s.deps.Catalog.InteractionTypes,
		Patterns:     patterns,
	}, nil
}
