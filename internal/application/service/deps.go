// Package service holds the per-session page services. Each browser session
// gets its own Workspace; the services inside it own their page state.
package service

import (
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/selector"
)

// Deps are the process-wide collaborators shared by every session
type Deps struct {
	Catalog        *content.Catalog
	Records        repository.RecordRepository
	Customizations repository.CustomizationRepository
	Tx             output.TransactionManager
	Auth           output.AuthGateway
	Selector       selector.ResponseSelector
	IDs            *record.IDGenerator
	Clock          func() time.Time
	PublicURL      string // Base URL used for password reset redirects
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// Workspace bundles the page services of one session
type Workspace struct {
	Owner      string
	Profile    *ProfileService
	Onboarding *OnboardingService
	Login      *LoginService
	Reflection *ReflectionService
	Tracker    *TrackerService
	Mirror     *MirrorService
	Scripts    *ScriptService
	Dashboard  *DashboardService
	Settings   *SettingsService
}

// NewWorkspace creates the services of a new session owned by owner
func NewWorkspace(deps Deps, owner string) *Workspace {
	if deps.Selector == nil {
		deps.Selector = selector.NewUniform()
	}
	if deps.IDs == nil {
		deps.IDs = record.NewIDGenerator()
	}

	profile := NewProfileService()
	reflection := NewReflectionService(deps)
	tracker := NewTrackerService(deps, owner)
	mirror := NewMirrorService(deps, owner)
	scripts := NewScriptService(deps, owner)

	return &Workspace{
		Owner:      owner,
		Profile:    profile,
		Onboarding: NewOnboardingService(deps, profile),
		Login:      NewLoginService(deps, profile),
		Reflection: reflection,
		Tracker:    tracker,
		Mirror:     mirror,
		Scripts:    scripts,
		Dashboard:  NewDashboardService(deps, profile, reflection, tracker, mirror, scripts),
		Settings:   NewSettingsService(deps, owner, profile, NewExporter(deps)),
	}
}
