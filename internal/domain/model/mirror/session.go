// Package mirror models a guided pattern-mirror session: the user picks a
// category and walks its prompts one at a time.
package mirror

import (
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
)

// Session tracks the selected category and the prompt being answered.
// The zero value is "no category selected".
type Session struct {
	category *content.PatternCategory
	index    int
}

// Select starts walking the prompts of a category from the first prompt
func (s *Session) Select(c content.PatternCategory) {
	cat := c
	s.category = &cat
	s.index = 0
}

// Active reports whether a category is selected
func (s *Session) Active() bool {
	return s.category != nil && len(s.category.Prompts) > 0
}

// Category returns the selected category
func (s *Session) Category() (content.PatternCategory, bool) {
	if s.category == nil {
		return content.PatternCategory{}, false
	}
	return *s.category, true
}

// Prompt returns the current prompt, or "" when inactive
func (s *Session) Prompt() string {
	if !s.Active() {
		return ""
	}
	return s.category.Prompts[s.index]
}

// Position returns the 1-based prompt number and the prompt count
func (s *Session) Position() (int, int) {
	if !s.Active() {
		return 0, 0
	}
	return s.index + 1, len(s.category.Prompts)
}

// Next moves to the following prompt. After the last prompt the session
// returns to category selection and Next reports false.
func (s *Session) Next() bool {
	if !s.Active() {
		return false
	}
	if s.index < len(s.category.Prompts)-1 {
		s.index++
		return true
	}
	s.Leave()
	return false
}

// Leave returns to category selection
func (s *Session) Leave() {
	s.category = nil
	s.index = 0
}
