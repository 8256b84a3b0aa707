package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/script"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/recordlog"
)

// Flash texts shown after script actions
const (
	CustomizationSavedTitle   = "Customization saved"
	CustomizationSavedMessage = "Your personalized script has been saved."
)

// ScriptState is a snapshot of the scripts page
type ScriptState struct {
	Category   string
	Categories []content.ScriptCategory
	Entries    []script.Entry
	Guidance   []string
}

// ScriptService exposes the expression scripts of one session
type ScriptService struct {
	deps    Deps
	scripts *recordlog.Scripts
}

// NewScriptService creates the script list of owner
func NewScriptService(deps Deps, owner string) *ScriptService {
	return &ScriptService{
		deps:    deps,
		scripts: recordlog.NewScripts(deps.Catalog.Scripts, deps.Customizations, owner),
	}
}

// Customize overrides the text of a script. Unknown IDs are ignored.
func (s *ScriptService) Customize(ctx context.Context, id, text string) error {
	return s.scripts.Customize(ctx, id, text)
}

// Reset restores the template text
func (s *ScriptService) Reset(ctx context.Context, id string) error {
	return s.scripts.Reset(ctx, id)
}

// Entries returns every script in catalog order
func (s *ScriptService) Entries(ctx context.Context) ([]script.Entry, error) {
	return s.scripts.Entries(ctx)
}

// CustomizedCount returns how many scripts carry an override
func (s *ScriptService) CustomizedCount(ctx context.Context) (int, error) {
	return s.scripts.CustomizedCount(ctx)
}

// State returns the page snapshot filtered by category
func (s *ScriptService) State(ctx context.Context, category string) (ScriptState, error) {
	if category == "" {
		category = recordlog.AllCategories
	}
	seq, err := s.scripts.FilterByCategory(ctx, category)
	if err != nil {
		return ScriptState{}, fmt.Errorf("failed to filter scripts: %w", err)
	}
	return ScriptState{
		Category:   category,
		Categories: s.deps.Catalog.ScriptCategories,
		Entries:    slices.Collect(seq),
		Guidance:   s.deps.Catalog.ScriptGuidance,
	}, nil
}
