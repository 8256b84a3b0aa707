package repository

import "context"

// CustomizationRepository stores per-owner overrides of script templates.
// The templates themselves are static catalog content.
type CustomizationRepository interface {
	// Find returns the override for one script, or "" when none is stored
	Find(ctx context.Context, owner, scriptID string) (string, error)

	// List returns every override of an owner keyed by script ID
	List(ctx context.Context, owner string) (map[string]string, error)

	// Save stores or replaces an override
	Save(ctx context.Context, owner, scriptID, text string) error

	// Clear removes an override so the template shows again
	Clear(ctx context.Context, owner, scriptID string) error
}
