package service

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/app"
	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/wizard"
)

// passwordMismatchMessage is shown when the two passwords differ
const passwordMismatchMessage = "Passwords do not match"

// OnboardingState is a snapshot of the wizard for rendering
type OnboardingState struct {
	Step       wizard.Step
	Number     int // 1-based
	Count      int
	Progress   int // Percent of steps reached
	Fields     map[wizard.Field]string
	CanAdvance bool
	Terminal   bool
	Busy       bool
	Error      *output.AuthError

	Goals    []content.Goal
	Emotions []content.Emotion
	Plans    []content.Plan

	// Resolved selections for the summary step
	Goal        content.Goal
	Emotion     content.Emotion
	Plan        content.Plan
	Affirmation string
}

// OnboardingService drives the onboarding wizard of one session
type OnboardingService struct {
	deps    Deps
	profile *ProfileService

	mu      sync.Mutex
	wizard  *wizard.Wizard
	lastErr *output.AuthError
	busy    busyFlag
}

// NewOnboardingService creates an onboarding service with no wizard mounted
func NewOnboardingService(deps Deps, profile *ProfileService) *OnboardingService {
	return &OnboardingService{deps: deps, profile: profile}
}

// Mount creates the wizard on first visit
func (s *OnboardingService) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mountLocked()
}

func (s *OnboardingService) mountLocked() *wizard.Wizard {
	if s.wizard == nil {
		s.wizard = wizard.NewOnboarding()
	}
	return s.wizard
}

// Restart discards the wizard and starts again from step 1
func (s *OnboardingService) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy.Busy() {
		return ErrBusy
	}
	s.wizard = wizard.NewOnboarding()
	s.lastErr = nil
	return nil
}

// SetFields assigns submitted values without moving
func (s *OnboardingService) SetFields(fields map[wizard.Field]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy.Busy() {
		return ErrBusy
	}
	return s.setFieldsLocked(fields)
}

func (s *OnboardingService) setFieldsLocked(fields map[wizard.Field]string) error {
	w := s.mountLocked()
	var errs []error
	for f, v := range fields {
		if err := s.checkOption(f, v); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := w.SetField(f, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkOption rejects selections outside their catalog. Empty is allowed
// so a selection can be cleared.
func (s *OnboardingService) checkOption(f wizard.Field, v string) error {
	if v == "" {
		return nil
	}
	cat := s.deps.Catalog
	switch f {
	case wizard.FieldGoal:
		if _, ok := cat.Goal(v); !ok {
			return invalidOption(f.String(), v)
		}
	case wizard.FieldEmotion:
		if _, ok := cat.Emotion(v); !ok {
			return invalidOption(f.String(), v)
		}
	case wizard.FieldPlan:
		if _, ok := cat.Plan(v); !ok {
			return invalidOption(f.String(), v)
		}
	}
	return nil
}

// Next stores the submitted values then moves forward when the step allows it.
// The wizard is frozen while a sign-up is in flight.
func (s *OnboardingService) Next(fields map[wizard.Field]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy.Busy() {
		return false, ErrBusy
	}
	err := s.setFieldsLocked(fields)
	return s.wizard.Advance(), err
}

// Back stores the submitted values then moves one step back
func (s *OnboardingService) Back(fields map[wizard.Field]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy.Busy() {
		return false, ErrBusy
	}
	if err := s.setFieldsLocked(fields); err != nil {
		app.GetLogger().Debug("onboarding back: ignored fields: %v", err)
	}
	return s.wizard.Retreat(), nil
}

// Complete signs the user up with the collected fields and returns the
// dashboard URL to redirect to. The wizard is discarded on success.
func (s *OnboardingService) Complete(ctx context.Context, fields map[wizard.Field]string) (string, error) {
	if !s.busy.acquire() {
		return "", ErrBusy
	}
	defer s.busy.release()

	s.mu.Lock()
	if err := s.setFieldsLocked(fields); err != nil {
		s.mu.Unlock()
		return "", err
	}
	w := s.wizard
	if err := w.CheckComplete(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	collected := w.Fields()
	if collected[wizard.FieldPassword] != collected[wizard.FieldConfirmPassword] {
		authErr := &output.AuthError{Code: "password_mismatch", Message: passwordMismatchMessage}
		s.lastErr = authErr
		s.mu.Unlock()
		return "", authErr
	}
	s.lastErr = nil
	s.mu.Unlock()

	pending, err := s.deps.Auth.SignUp(ctx,
		collected[wizard.FieldEmail],
		collected[wizard.FieldPassword],
		output.Profile{Name: collected[wizard.FieldName]},
	)
	if err != nil {
		var authErr *output.AuthError
		if errors.As(err, &authErr) {
			s.mu.Lock()
			s.lastErr = authErr
			s.mu.Unlock()
		}
		app.GetLogger().Warn("onboarding sign up failed: %v", err)
		return "", err
	}

	plan := collected[wizard.FieldPlan]
	s.profile.registered(collected[wizard.FieldName], collected[wizard.FieldEmail], plan, pending)

	s.mu.Lock()
	w.MarkCompleted()
	if s.wizard == w {
		s.wizard = nil
	}
	s.mu.Unlock()

	app.GetLogger().Info("onboarding completed with plan %s", plan)
	return "/dashboard?plan=" + url.QueryEscape(plan), nil
}

// DismissError clears the inline auth message
func (s *OnboardingService) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// State returns the current wizard snapshot, mounting it if needed
func (s *OnboardingService) State() OnboardingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.mountLocked()
	cat := s.deps.Catalog
	fields := w.Fields()

	st := OnboardingState{
		Step:       w.Current(),
		Number:     w.CurrentStep(),
		Count:      w.StepCount(),
		Progress:   w.CurrentStep() * 100 / w.StepCount(),
		Fields:     fields,
		CanAdvance: w.CanAdvance(w.CurrentStep()),
		Terminal:   w.IsTerminal(),
		Busy:       s.busy.Busy(),
		Error:      s.lastErr,
		Goals:      cat.Goals,
		Emotions:   cat.Emotions,
		Plans:      cat.Plans,
	}
	st.Goal, _ = cat.Goal(fields[wizard.FieldGoal])
	st.Emotion, _ = cat.Emotion(fields[wizard.FieldEmotion])
	st.Plan, _ = cat.Plan(fields[wizard.FieldPlan])
	st.Affirmation = st.Emotion.Affirmation
	if st.Affirmation == "" {
		st.Affirmation = cat.Affirmations.Onboarding
	}
	return st
}
