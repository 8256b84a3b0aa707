package service

import (
	"strings"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// DefaultDisplayName is shown until the user tells us their name
const DefaultDisplayName = "Beautiful Soul"

// Profile is what the session knows about its user
type Profile struct {
	Name     string
	Email    string
	UserID   string
	Plan     string
	SignedIn bool
}

// DisplayName returns the name to greet the user with
func (p Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return DefaultDisplayName
	}
	return p.Name
}

// ProfileService holds the session's profile. Onboarding, sign in and the
// settings page write it; the dashboard reads it.
type ProfileService struct {
	mu      sync.RWMutex
	profile Profile
}

// NewProfileService creates an empty profile
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// Get returns a copy of the profile
func (s *ProfileService) Get() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Update replaces the display name and email
func (s *ProfileService) Update(name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = strings.TrimSpace(name)
	s.profile.Email = strings.TrimSpace(email)
}

// registered records a completed onboarding
func (s *ProfileService) registered(name, email, plan string, pending *output.PendingVerification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = strings.TrimSpace(name)
	s.profile.Email = strings.TrimSpace(email)
	s.profile.Plan = plan
	if pending != nil {
		s.profile.UserID = pending.UserID
		if pending.Email != "" {
			s.profile.Email = pending.Email
		}
	}
}

// signedIn records a successful sign in
func (s *ProfileService) signedIn(session *output.AuthSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.SignedIn = true
	s.profile.UserID = session.UserID
	s.profile.Email = session.Email
	if session.Name != "" {
		s.profile.Name = session.Name
	}
}
