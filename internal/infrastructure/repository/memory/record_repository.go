// Package memory provides in-process repository implementations. State lives
// only as long as the process and every method is safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// RecordRepository is an in-memory implementation of repository.RecordRepository
type RecordRepository struct {
	mu sync.RWMutex
	// Records are appended in insertion order and read back in reverse, which
	// keeps front insertion O(1) amortized.
	records []*record.Record
	byID    map[record.ID]int
}

// NewRecordRepository creates a new in-memory record repository
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		byID: make(map[record.ID]int),
	}
}

// Add inserts a record at the front of its owner's list
func (m *RecordRepository) Add(ctx context.Context, r *record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[r.ID]; exists {
		return fmt.Errorf("record already exists: %s", r.ID)
	}
	m.byID[r.ID] = len(m.records)
	m.records = append(m.records, r.Clone())
	return nil
}

// List retrieves records by filter, newest first
func (m *RecordRepository) List(ctx context.Context, filter repository.RecordFilter) ([]*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*record.Record{}
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if !filter.Matches(r) {
			continue
		}
		result = append(result, r.Clone())
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// FindByID retrieves a record by its ID
func (m *RecordRepository) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, exists := m.byID[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrRecordNotFound, id)
	}
	return m.records[i].Clone(), nil
}

// Update replaces a stored record, keeping its position
func (m *RecordRepository) Update(ctx context.Context, r *record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, exists := m.byID[r.ID]
	if !exists {
		return fmt.Errorf("%w: %s", repository.ErrRecordNotFound, r.ID)
	}
	m.records[i] = r.Clone()
	return nil
}
