// Package content defines the static, bundled content tables: catalogs of
// goals, emotional states, plans, prompts and canned responses. None of them
// are user-editable at runtime.
package content

import (
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/script"
)

// Goal is an onboarding goal option
type Goal struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Emotion is an emotional-resonance option; its affirmation is shown on the
// onboarding summary step.
type Emotion struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Affirmation string `yaml:"affirmation"`
}

// Plan is a subscription plan option
type Plan struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

// PatternCategory groups the guided self-reflection prompts
type PatternCategory struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Prompts     []string `yaml:"prompts"`
}

// ScriptCategory groups expression scripts
type ScriptCategory struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// InteractionType is a tracker category with its display label
type InteractionType struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Feature is a dashboard feature card
type Feature struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	Action      string `yaml:"action"`
	Path        string `yaml:"path"`
}

// Catalog bundles every content table
type Catalog struct {
	Goals             []Goal            `yaml:"goals"`
	Emotions          []Emotion         `yaml:"emotions"`
	Plans             []Plan            `yaml:"plans"`
	CoachGreeting     string            `yaml:"coach_greeting"`
	CoachResponses    []string          `yaml:"coach_responses"`
	ReflectionPrompts []string          `yaml:"reflection_prompts"`
	PatternCategories []PatternCategory `yaml:"pattern_categories"`
	ScriptCategories  []ScriptCategory  `yaml:"script_categories"`
	Scripts           []script.Template `yaml:"scripts"`
	ScriptGuidance    []string          `yaml:"script_guidance"`
	InteractionTypes  []InteractionType `yaml:"interaction_types"`
	TrackerInsights   []string          `yaml:"tracker_insights"`
	Features          []Feature         `yaml:"features"`
	Affirmations      Affirmations      `yaml:"affirmations"`
}

// Affirmations are the fixed daily texts shown around the app
type Affirmations struct {
	Onboarding string   `yaml:"onboarding"`
	Reflection string   `yaml:"reflection"`
	Daily      []string `yaml:"daily"`
}

// Goal looks up a goal by ID
func (c *Catalog) Goal(id string) (Goal, bool) {
	for _, g := range c.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// Emotion looks up an emotional state by ID
func (c *Catalog) Emotion(id string) (Emotion, bool) {
	for _, e := range c.Emotions {
		if e.ID == id {
			return e, true
		}
	}
	return Emotion{}, false
}

// Plan looks up a plan by ID
func (c *Catalog) Plan(id string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PatternCategory looks up a pattern category by ID
func (c *Catalog) PatternCategory(id string) (PatternCategory, bool) {
	for _, pc := range c.PatternCategories {
		if pc.ID == id {
			return pc, true
		}
	}
	return PatternCategory{}, false
}

// ScriptCategory looks up a script category by ID
func (c *Catalog) ScriptCategory(id string) (ScriptCategory, bool) {
	for _, sc := range c.ScriptCategories {
		if sc.ID == id {
			return sc, true
		}
	}
	return ScriptCategory{}, false
}

// InteractionLabel returns the display label of a tracker category, or the ID itself
func (c *Catalog) InteractionLabel(id string) string {
	for _, it := range c.InteractionTypes {
		if it.ID == id {
			return it.Label
		}
	}
	return id
}

// InteractionTypeIDs returns the closed set of tracker categories
func (c *Catalog) InteractionTypeIDs() []string {
	ids := make([]string, 0, len(c.InteractionTypes))
	for _, it := range c.InteractionTypes {
		ids = append(ids, it.ID)
	}
	return ids
}

// PatternCategoryIDs returns the closed set of discovery categories
func (c *Catalog) PatternCategoryIDs() []string {
	ids := make([]string, 0, len(c.PatternCategories))
	for _, pc := range c.PatternCategories {
		ids = append(ids, pc.ID)
	}
	return ids
}

// DailyAffirmation returns the affirmation for the day of t. The same day
// always gets the same text.
func (c *Catalog) DailyAffirmation(t time.Time) string {
	if len(c.Affirmations.Daily) == 0 {
		return ""
	}
	return c.Affirmations.Daily[t.YearDay()%len(c.Affirmations.Daily)]
}
