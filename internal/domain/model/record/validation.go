package record

import (
	"fmt"
	"strings"
)

// ValidationError reports a required field that is empty or a value outside
// its closed set. The UI handles it by keeping the submit action disabled.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a normalized draft against the rules of the given kind.
// categories is the closed set of categories the kind accepts.
func Validate(kind Kind, d Draft, categories []string) error {
	if !kind.IsValid() {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}

	if d.Category == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	if !contains(categories, d.Category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of %s", d.Category, strings.Join(categories, ", "))}
	}

	if kind == KindInteraction {
		if d.Subject == "" {
			return &ValidationError{Field: "person", Reason: "required"}
		}
		if d.Energy != "" && !d.Energy.IsValid() {
			return &ValidationError{Field: "energy", Reason: fmt.Sprintf("unknown energy %q", d.Energy)}
		}
	}

	if d.Text == "" {
		return &ValidationError{Field: "text", Reason: "required"}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
