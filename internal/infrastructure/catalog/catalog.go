// Package catalog loads the bundled content tables.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
)

//go:embed content.yaml
var contentYAML []byte

// Expected table sizes. The pages are laid out for exactly these counts.
const (
	goalCount            = 4
	emotionCount         = 6
	planCount            = 3
	coachResponseCount   = 5
	reflectionPromptCnt  = 5
	patternCategoryCount = 3
	promptsPerCategory   = 4
	scriptCount          = 8
	scriptCategoryCount  = 3
	interactionTypeCount = 5
	featureCount         = 4
)

// RequiredPlans are the plan IDs the onboarding wizard and landing page link to
var RequiredPlans = []string{"free", "monthly", "annual"}

// Load parses and validates the embedded content tables
func Load() (*content.Catalog, error) {
	return Parse(contentYAML)
}

// Parse parses and validates content tables from YAML
func Parse(data []byte) (*content.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c content.Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks table sizes, ID uniqueness and cross references
func Validate(c *content.Catalog) error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	count := func(table string, got, want int) {
		check(got == want, "%s: expected %d entries, got %d", table, want, got)
	}

	count("goals", len(c.Goals), goalCount)
	count("emotions", len(c.Emotions), emotionCount)
	count("plans", len(c.Plans), planCount)
	count("coach_responses", len(c.CoachResponses), coachResponseCount)
	count("reflection_prompts", len(c.ReflectionPrompts), reflectionPromptCnt)
	count("pattern_categories", len(c.PatternCategories), patternCategoryCount)
	count("scripts", len(c.Scripts), scriptCount)
	count("script_categories", len(c.ScriptCategories), scriptCategoryCount)
	count("interaction_types", len(c.InteractionTypes), interactionTypeCount)
	count("features", len(c.Features), featureCount)

	check(c.CoachGreeting != "", "coach_greeting: required")
	check(len(c.TrackerInsights) > 0, "tracker_insights: at least one entry required")
	check(len(c.Affirmations.Daily) > 0, "affirmations.daily: at least one entry required")

	errs = append(errs, uniqueIDs("goals", ids(c.Goals, func(g content.Goal) string { return g.ID }))...)
	errs = append(errs, uniqueIDs("emotions", ids(c.Emotions, func(e content.Emotion) string { return e.ID }))...)
	errs = append(errs, uniqueIDs("plans", ids(c.Plans, func(p content.Plan) string { return p.ID }))...)
	errs = append(errs, uniqueIDs("pattern_categories", c.PatternCategoryIDs())...)
	errs = append(errs, uniqueIDs("script_categories", ids(c.ScriptCategories, func(s content.ScriptCategory) string { return s.ID }))...)
	errs = append(errs, uniqueIDs("interaction_types", c.InteractionTypeIDs())...)
	errs = append(errs, uniqueIDs("features", ids(c.Features, func(f content.Feature) string { return f.ID }))...)

	for _, e := range c.Emotions {
		check(e.Affirmation != "", "emotions[%s]: affirmation required", e.ID)
	}
	for _, id := range RequiredPlans {
		_, ok := c.Plan(id)
		check(ok, "plans: missing %q", id)
	}
	for _, pc := range c.PatternCategories {
		check(len(pc.Prompts) == promptsPerCategory, "pattern_categories[%s]: expected %d prompts, got %d", pc.ID, promptsPerCategory, len(pc.Prompts))
	}

	scriptIDs := make([]string, 0, len(c.Scripts))
	for _, s := range c.Scripts {
		scriptIDs = append(scriptIDs, s.ID)
		_, ok := c.ScriptCategory(s.Category)
		check(ok, "scripts[%s]: unknown category %q", s.ID, s.Category)
		check(s.Template != "", "scripts[%s]: template required", s.ID)
	}
	errs = append(errs, uniqueIDs("scripts", scriptIDs)...)

	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func uniqueIDs(table string, values []string) []error {
	var errs []error
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s: empty id", table))
			continue
		}
		if seen[v] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", table, v))
		}
		seen[v] = true
	}
	return errs
}
