// Package wizard implements a gated multi-step form.
//
// The wizard moves strictly one step at a time. Moving forward requires every
// required field of the current step to be set; moving back is always allowed
// except from the first step. Leaving the last step is an explicit Complete
// call that hands the collected fields to a caller-supplied function.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSteps is returned when a wizard is created without steps
	ErrNoSteps = errors.New("wizard needs at least one step")
	// ErrUnknownField is returned by SetField for a field no step declares
	ErrUnknownField = errors.New("unknown wizard field")
	// ErrNotTerminal is returned by Complete before the last step is reached
	ErrNotTerminal = errors.New("wizard can only complete on its last step")
	// ErrIncomplete is returned by Complete when the last step still has unset fields
	ErrIncomplete = errors.New("wizard step has unset required fields")
	// ErrCompleted is returned when a completed wizard is modified
	ErrCompleted = errors.New("wizard already completed")
)

// HandoffFunc receives the collected fields when the wizard completes
type HandoffFunc func(ctx context.Context, fields map[Field]string) error

// Wizard holds the state of one run through a step sequence.
// It is not safe for concurrent use.
type Wizard struct {
	steps     []Step
	current   int // 1-based
	fields    map[Field]string
	known     map[Field]bool
	completed bool
}

// New creates a wizard positioned on step 1
func New(steps []Step) (*Wizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	known := make(map[Field]bool)
	for _, s := range steps {
		for _, f := range s.Required() {
			known[f] = true
		}
	}

	return &Wizard{
		steps:   append([]Step(nil), steps...),
		current: 1,
		fields:  make(map[Field]string),
		known:   known,
	}, nil
}

// NewOnboarding creates the six-step onboarding wizard
func NewOnboarding() *Wizard {
	w, _ := New(OnboardingSteps())
	return w
}

// CurrentStep returns the 1-based index of the current step
func (w *Wizard) CurrentStep() int {
	return w.current
}

// Current returns the current step
func (w *Wizard) Current() Step {
	return w.steps[w.current-1]
}

// StepCount returns the number of steps
func (w *Wizard) StepCount() int {
	return len(w.steps)
}

// IsTerminal reports whether the current step is the last one
func (w *Wizard) IsTerminal() bool {
	return w.current == len(w.steps)
}

// Completed reports whether Complete succeeded
func (w *Wizard) Completed() bool {
	return w.completed
}

// Field returns the value of a field, or "" when unset
func (w *Wizard) Field(f Field) string {
	return w.fields[f]
}

// Fields returns a copy of all field values
func (w *Wizard) Fields() map[Field]string {
	out := make(map[Field]string, len(w.fields))
	for k, v := range w.fields {
		out[k] = v
	}
	return out
}

// CanAdvance reports whether every required field of the given step is set.
// Steps outside the sequence are never advanceable.
func (w *Wizard) CanAdvance(step int) bool {
	if step < 1 || step > len(w.steps) {
		return false
	}
	for _, f := range w.steps[step-1].Required() {
		if strings.TrimSpace(w.fields[f]) == "" {
			return false
		}
	}
	return true
}

// LastUnlockedStep returns the smallest step with unset required fields,
// or the last step when all are satisfied. The current step never exceeds it.
func (w *Wizard) LastUnlockedStep() int {
	for i := 1; i <= len(w.steps); i++ {
		if !w.CanAdvance(i) {
			return i
		}
	}
	return len(w.steps)
}

// Advance moves to the next step. It is a no-op returning false when the
// current step is incomplete, terminal, or the wizard has completed.
func (w *Wizard) Advance() bool {
	if w.completed || w.IsTerminal() || !w.CanAdvance(w.current) {
		return false
	}
	w.current++
	return true
}

// Retreat moves to the previous step. It is a no-op on step 1.
func (w *Wizard) Retreat() bool {
	if w.completed || w.current <= 1 {
		return false
	}
	w.current--
	return true
}

// SetField assigns a field value. It never advances. Clearing a field of an
// earlier step pulls the current step back to the first incomplete one.
func (w *Wizard) SetField(f Field, value string) error {
	if w.completed {
		return ErrCompleted
	}
	if !w.known[f] {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}

	w.fields[f] = value

	if last := w.LastUnlockedStep(); w.current > last {
		w.current = last
	}
	return nil
}

// CheckComplete reports whether Complete would call its hand-off
func (w *Wizard) CheckComplete() error {
	if w.completed {
		return ErrCompleted
	}
	if !w.IsTerminal() {
		return ErrNotTerminal
	}
	if !w.CanAdvance(w.current) {
		return ErrIncomplete
	}
	return nil
}

// MarkCompleted ends the wizard. Callers that run the hand-off themselves
// (outside a lock, for example) call it after the hand-off succeeds.
func (w *Wizard) MarkCompleted() {
	w.completed = true
}

// Complete runs the hand-off on the terminal step. On hand-off failure the
// wizard stays where it is and the error is returned unchanged.
func (w *Wizard) Complete(ctx context.Context, handoff HandoffFunc) error {
	if err := w.CheckComplete(); err != nil {
		return err
	}
	if err := handoff(ctx, w.Fields()); err != nil {
		return err
	}
	w.MarkCompleted()
	return nil
}
