package service

import (
	"context"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/mirror"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/recordlog"
)

const recentDiscoveries = 3

// MirrorState is a snapshot of the pattern mirror page
type MirrorState struct {
	Categories []content.PatternCategory
	Active     bool
	Category   content.PatternCategory
	Prompt     string
	Number     int // 1-based prompt position
	Count      int
	Recent     []*record.Record
	Total      int
}

// MirrorService walks pattern prompts and keeps the discovery log of one session
type MirrorService struct {
	deps Deps
	log  *recordlog.Log

	mu      sync.Mutex
	session mirror.Session
}

// NewMirrorService creates the pattern mirror of owner
func NewMirrorService(deps Deps, owner string) *MirrorService {
	return &MirrorService{
		deps: deps,
		log: recordlog.NewLog(deps.Records, deps.IDs, owner, record.KindDiscovery,
			deps.Catalog.PatternCategoryIDs(), recordlog.WithClock(deps.now)),
	}
}

// Select starts a category. Unknown categories are rejected.
func (s *MirrorService) Select(categoryID string) error {
	cat, ok := s.deps.Catalog.PatternCategory(categoryID)
	if !ok {
		return invalidOption("category", categoryID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Select(cat)
	return nil
}

// Save stores the answer to the current prompt as a discovery and moves on.
// An empty answer is rejected and the prompt stays.
func (s *MirrorService) Save(ctx context.Context, answer string) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.session.Category()
	if !ok {
		return nil, &record.ValidationError{Field: "category", Reason: "no category selected"}
	}
	rec, err := s.log.Add(ctx, record.Draft{
		Category: cat.ID,
		Subject:  s.session.Prompt(),
		Text:     answer,
	})
	if err != nil {
		return nil, err
	}
	s.session.Next()
	return rec, nil
}

// Skip moves to the next prompt without saving
func (s *MirrorService) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Next()
}

// Leave returns to category selection
func (s *MirrorService) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Leave()
}

// Count returns the number of saved discoveries
func (s *MirrorService) Count(ctx context.Context) (int, error) {
	return s.log.Count(ctx)
}

// State returns the page snapshot
func (s *MirrorService) State(ctx context.Context) (MirrorState, error) {
	recent, err := s.log.Recent(ctx, recentDiscoveries)
	if err != nil {
		return MirrorState{}, err
	}
	total, err := s.log.Count(ctx)
	if err != nil {
		return MirrorState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := MirrorState{
		Categories: s.deps.Catalog.PatternCategories,
		Active:     s.session.Active(),
		Prompt:     s.session.Prompt(),
		Recent:     recent,
		Total:      total,
	}
	st.Category, _ = s.session.Category()
	st.Number, st.Count = s.session.Position()
	return st, nil
}
