package service

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/reflection"
)

// ReflectionService holds the reflection coach conversation of one session.
// Reflections stay in memory with the page.
type ReflectionService struct {
	deps Deps

	mu   sync.Mutex
	conv *reflection.Conversation
}

// NewReflectionService starts a conversation with the coach greeting
func NewReflectionService(deps Deps) *ReflectionService {
	return &ReflectionService{
		deps: deps,
		conv: reflection.NewConversation(deps.Catalog.CoachGreeting, deps.now()),
	}
}

// Share appends the user's reflection followed by a coach response
func (s *ReflectionService) Share(text string) (reflection.Message, error) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return reflection.Message{}, &record.ValidationError{Field: "text", Reason: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.deps.now()
	s.conv.Append(reflection.Message{Speaker: reflection.SpeakerUser, Text: text, At: now})
	reply := reflection.Message{
		Speaker: reflection.SpeakerCoach,
		Text:    s.deps.Selector.Pick(s.deps.Catalog.CoachResponses),
		At:      now,
	}
	s.conv.Append(reply)
	return reply, nil
}

// Messages returns the conversation oldest first
func (s *ReflectionService) Messages() []reflection.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// SharedCount returns how many reflections were shared
func (s *ReflectionService) SharedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.SharedCount()
}

// Prompts returns the suggestions that prefill the input
func (s *ReflectionService) Prompts() []string {
	return s.deps.Catalog.ReflectionPrompts
}

// Reminder returns the daily reminder shown beside the conversation
func (s *ReflectionService) Reminder() string {
	return s.deps.Catalog.Affirmations.Reflection
}
