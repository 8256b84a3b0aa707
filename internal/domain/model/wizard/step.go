package wizard

// Field names a step-scoped wizard input
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldGoal            Field = "goal"
	FieldEmotion         Field = "emotion"
	FieldPlan            Field = "plan"
)

// String returns the string representation
func (f Field) String() string {
	return string(f)
}

// Step is one screen of a wizard. The set of implementations is closed:
// renderers switch on the concrete type.
type Step interface {
	// Title is the heading shown for the step
	Title() string
	// Required lists the fields that must be non-empty before leaving the step
	Required() []Field

	isStep()
}

// NameStep asks how the user wants to be addressed
type NameStep struct{}

// AccountStep collects sign-up credentials
type AccountStep struct{}

// GoalStep selects one entry of the goal catalog
type GoalStep struct{}

// EmotionStep selects one entry of the emotional-resonance catalog
type EmotionStep struct{}

// SummaryStep shows the personalized affirmation; it has no inputs
type SummaryStep struct{}

// PlanStep selects a subscription plan
type PlanStep struct{}

func (NameStep) Title() string    { return "Welcome" }
func (AccountStep) Title() string { return "Create your account" }
func (GoalStep) Title() string    { return "What brings you here" }
func (EmotionStep) Title() string { return "How you are feeling" }
func (SummaryStep) Title() string { return "Your safe space" }
func (PlanStep) Title() string    { return "Choose your plan" }

func (NameStep) Required() []Field { return []Field{FieldName} }
func (AccountStep) Required() []Field {
	return []Field{FieldEmail, FieldPassword, FieldConfirmPassword}
}
func (GoalStep) Required() []Field    { return []Field{FieldGoal} }
func (EmotionStep) Required() []Field { return []Field{FieldEmotion} }
func (SummaryStep) Required() []Field { return nil }
func (PlanStep) Required() []Field    { return []Field{FieldPlan} }

func (NameStep) isStep()    {}
func (AccountStep) isStep() {}
func (GoalStep) isStep()    {}
func (EmotionStep) isStep() {}
func (SummaryStep) isStep() {}
func (PlanStep) isStep()    {}

// OnboardingSteps returns the six onboarding steps in order
func OnboardingSteps() []Step {
	return []Step{
		NameStep{},
		AccountStep{},
		GoalStep{},
		EmotionStep{},
		SummaryStep{},
		PlanStep{},
	}
}
