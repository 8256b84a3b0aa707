package recordlog

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/script"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// Scripts is one owner's view of the script catalog with their overrides applied
type Scripts struct {
	templates []script.Template
	repo      repository.CustomizationRepository
	owner     string
}

// NewScripts creates the script list of owner over a fixed template catalog
func NewScripts(templates []script.Template, repo repository.CustomizationRepository, owner string) *Scripts {
	return &Scripts{
		templates: append([]script.Template(nil), templates...),
		repo:      repo,
		owner:     owner,
	}
}

// Entries returns every script in catalog order
func (s *Scripts) Entries(ctx context.Context) ([]script.Entry, error) {
	overrides, err := s.repo.List(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list customizations: %w", err)
	}

	entries := make([]script.Entry, 0, len(s.templates))
	for _, t := range s.templates {
		e := script.NewEntry(t)
		e.Customized = overrides[t.ID]
		entries = append(entries, e)
	}
	return entries, nil
}

// Entry returns a single script. The bool is false for unknown IDs.
func (s *Scripts) Entry(ctx context.Context, id string) (script.Entry, bool, error) {
	t, ok := s.template(id)
	if !ok {
		return script.Entry{}, false, nil
	}
	text, err := s.repo.Find(ctx, s.owner, id)
	if err != nil {
		return script.Entry{}, false, fmt.Errorf("failed to find customization: %w", err)
	}
	e := script.NewEntry(t)
	e.Customized = text
	return e, true, nil
}

// FilterByCategory has the same semantics as Log.FilterByCategory
func (s *Scripts) FilterByCategory(ctx context.Context, category string) (iter.Seq[script.Entry], error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return filter(entries, byCategory(category, func(e script.Entry) string { return e.Category })), nil
}

// Customize overrides the text of a script. Unknown IDs are ignored.
// Whitespace-only text clears the override.
func (s *Scripts) Customize(ctx context.Context, id, text string) error {
	if _, ok := s.template(id); !ok {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return s.Reset(ctx, id)
	}
	if err := s.repo.Save(ctx, s.owner, id, text); err != nil {
		return fmt.Errorf("failed to save customization: %w", err)
	}
	return nil
}

// Reset drops the override so the template text shows again
func (s *Scripts) Reset(ctx context.Context, id string) error {
	if _, ok := s.template(id); !ok {
		return nil
	}
	if err := s.repo.Clear(ctx, s.owner, id); err != nil {
		return fmt.Errorf("failed to clear customization: %w", err)
	}
	return nil
}

// CustomizedCount returns how many catalog scripts the owner has overridden
func (s *Scripts) CustomizedCount(ctx context.Context) (int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsCustomized() {
			n++
		}
	}
	return n, nil
}

func (s *Scripts) template(id string) (script.Template, bool) {
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return script.Template{}, false
}
