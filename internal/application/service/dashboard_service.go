package service

import (
	"context"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
)

// DashboardStats are the quick stats under the feature cards
type DashboardStats struct {
	ReflectionsShared  int
	InteractionsLogged int
	DiscoveriesSaved   int
	ScriptsCustomized  int
}

// DashboardState is a snapshot of the dashboard page
type DashboardState struct {
	Name        string
	Weekday     string
	Affirmation string
	Features    []content.Feature
	Stats       DashboardStats
	Plan        *content.Plan // Set when arriving from onboarding
}

// DashboardService assembles the dashboard from the other page services
type DashboardService struct {
	deps       Deps
	profile    *ProfileService
	reflection *ReflectionService
	tracker    *TrackerService
	mirror     *MirrorService
	scripts    *ScriptService
}

// NewDashboardService creates a dashboard over the given services
func NewDashboardService(deps Deps, profile *ProfileService, reflection *ReflectionService,
	tracker *TrackerService, mirror *MirrorService, scripts *ScriptService) *DashboardService {
	return &DashboardService{
		deps:       deps,
		profile:    profile,
		reflection: reflection,
		tracker:    tracker,
		mirror:     mirror,
		scripts:    scripts,
	}
}

// State returns the dashboard. planID comes from the ?plan= query and is
// ignored when it names no plan.
func (s *DashboardService) State(ctx context.Context, planID string) (DashboardState, error) {
	now := s.deps.now()
	st := DashboardState{
		Name:        s.profile.Get().DisplayName(),
		Weekday:     now.Weekday().String(),
		Affirmation: s.deps.Catalog.DailyAffirmation(now),
		Features:    s.deps.Catalog.Features,
	}
	if plan, ok := s.deps.Catalog.Plan(planID); ok {
		st.Plan = &plan
	}

	var err error
	st.Stats.ReflectionsShared = s.reflection.SharedCount()
	if st.Stats.InteractionsLogged, err = s.tracker.Count(ctx); err != nil {
		return DashboardState{}, err
	}
	if st.Stats.DiscoveriesSaved, err = s.mirror.Count(ctx); err != nil {
		return DashboardState{}, err
	}
	if st.Stats.ScriptsCustomized, err = s.scripts.CustomizedCount(ctx); err != nil {
		return DashboardState{}, err
	}
	return st, nil
}
