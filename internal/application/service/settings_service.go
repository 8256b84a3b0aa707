package service

import (
	"context"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/app"
)

// Notification toggles
const (
	ToggleDailyReminders    = "daily_reminders"
	ToggleReflectionPrompts = "reflection_prompts"
	ToggleWeeklyInsights    = "weekly_insights"
	ToggleEmailUpdates      = "email_updates"
)

// Flash texts shown after settings actions
const (
	SettingsSavedTitle    = "Settings saved"
	DeleteRequestedTitle  = "Deletion requested"
	DeleteRequestedDetail = "We received your request. Nothing has been deleted yet."
)

// Toggle is one notification switch
type Toggle struct {
	Key         string
	Label       string
	Description string
	On          bool
}

// SettingsState is a snapshot of the settings page
type SettingsState struct {
	Name          string
	Email         string
	Notifications []Toggle
	DarkMode      bool
}

// SettingsForm is a submitted settings page
type SettingsForm struct {
	Name          string
	Email         string
	Notifications map[string]bool
	DarkMode      bool
}

// Export is a rendered data export ready for download
type Export struct {
	FileName    string
	ContentType string
	Content     []byte
}

// SettingsService holds the preferences of one session
type SettingsService struct {
	deps     Deps
	owner    string
	profile  *ProfileService
	exporter *Exporter

	mu       sync.Mutex
	toggles  []Toggle
	darkMode bool
}

// NewSettingsService creates settings with the default toggles
func NewSettingsService(deps Deps, owner string, profile *ProfileService, exporter *Exporter) *SettingsService {
	return &SettingsService{
		deps:     deps,
		owner:    owner,
		profile:  profile,
		exporter: exporter,
		toggles: []Toggle{
			{Key: ToggleDailyReminders, Label: "Daily Reflection Reminders", Description: "Gentle daily nudges to check in with yourself", On: true},
			{Key: ToggleReflectionPrompts, Label: "Reflection Prompts", Description: "Thoughtful prompts when you haven't reflected in a while", On: true},
			{Key: ToggleWeeklyInsights, Label: "Weekly Insights", Description: "Summary of your patterns and growth insights"},
			{Key: ToggleEmailUpdates, Label: "Email Updates", Description: "Important account updates and feature announcements", On: true},
		},
	}
}

// Save applies a submitted settings form. Unknown toggle keys are ignored
// and missing ones switch off, the way unchecked checkboxes post nothing.
func (s *SettingsService) Save(form SettingsForm) {
	s.profile.Update(form.Name, form.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.toggles {
		s.toggles[i].On = form.Notifications[s.toggles[i].Key]
	}
	s.darkMode = form.DarkMode
}

// State returns the page snapshot
func (s *SettingsService) State() SettingsState {
	p := s.profile.Get()

	s.mu.Lock()
	defer s.mu.Unlock()
	return SettingsState{
		Name:          p.DisplayName(),
		Email:         p.Email,
		Notifications: append([]Toggle(nil), s.toggles...),
		DarkMode:      s.darkMode,
	}
}

// DarkMode reports whether the dark theme is on
func (s *SettingsService) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// Export renders the session's data in the given format
func (s *SettingsService) Export(ctx context.Context, format string) (*Export, error) {
	doc, err := s.exporter.Snapshot(ctx, s.owner)
	if err != nil {
		return nil, err
	}
	if p := s.profile.Get(); p.Name != "" || p.Email != "" || p.Plan != "" {
		doc.Profile = &ExportProfile{Name: p.Name, Email: p.Email, Plan: p.Plan}
	}

	data, contentType, err := Encode(doc, format)
	if err != nil {
		return nil, err
	}
	return &Export{
		FileName:    FileName(s.owner, format, doc.ExportedAt),
		ContentType: contentType,
		Content:     data,
	}, nil
}

// RequestDeletion acknowledges an account deletion request. Nothing is removed.
func (s *SettingsService) RequestDeletion() {
	app.GetLogger().Info("account deletion requested for %s; no action taken", s.owner)
}
