package repository

import (
	"context"
	"errors"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
)

// ErrRecordNotFound is returned when a record ID is unknown
var ErrRecordNotFound = errors.New("record not found")

// RecordRepository stores log records. Lists are newest first by insertion
// order, not by timestamp.
type RecordRepository interface {
	// Add inserts a record at the front of its owner's list
	Add(ctx context.Context, r *record.Record) error

	// List retrieves records by filter, newest first
	List(ctx context.Context, filter RecordFilter) ([]*record.Record, error)

	// FindByID retrieves a record by its ID
	FindByID(ctx context.Context, id record.ID) (*record.Record, error)

	// Update replaces a stored record, keeping its position
	Update(ctx context.Context, r *record.Record) error
}

// RecordFilter defines criteria for filtering records
type RecordFilter struct {
	Owner    string      // Required
	Kind     record.Kind // Empty matches every kind
	Category string      // Empty matches every category
	Limit    int         // 0 means no limit
}

// Matches reports whether r satisfies the filter
func (f RecordFilter) Matches(r *record.Record) bool {
	if r.Owner != f.Owner {
		return false
	}
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	return true
}
