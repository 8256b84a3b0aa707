package memory

import (
	"context"
	"sync"
)

// CustomizationRepository is an in-memory implementation of repository.CustomizationRepository
type CustomizationRepository struct {
	mu        sync.RWMutex
	overrides map[string]map[string]string // owner -> script ID -> text
}

// NewCustomizationRepository creates a new in-memory customization repository
func NewCustomizationRepository() *CustomizationRepository {
	return &CustomizationRepository{
		overrides: make(map[string]map[string]string),
	}
}

func (m *CustomizationRepository) Find(ctx context.Context, owner, scriptID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.overrides[owner][scriptID], nil
}

func (m *CustomizationRepository) List(ctx context.Context, owner string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.overrides[owner]))
	for id, text := range m.overrides[owner] {
		result[id] = text
	}
	return result, nil
}

func (m *CustomizationRepository) Save(ctx context.Context, owner, scriptID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.overrides[owner] == nil {
		m.overrides[owner] = make(map[string]string)
	}
	m.overrides[owner][scriptID] = text
	return nil
}

func (m *CustomizationRepository) Clear(ctx context.Context, owner, scriptID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.overrides[owner], scriptID)
	return nil
}
