package recordlog

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// Log is one owner's list of records of a single kind
type Log struct {
	repo       repository.RecordRepository
	ids        *record.IDGenerator
	owner      string
	kind       record.Kind
	categories []string
	clock      func() time.Time
}

// Option configures a Log
type Option func(*Log)

// WithClock overrides the time source used for CreatedAt
func WithClock(clock func() time.Time) Option {
	return func(l *Log) {
		l.clock = clock
	}
}

// NewLog creates a log for owner. categories is the closed set accepted by Add.
func NewLog(repo repository.RecordRepository, ids *record.IDGenerator, owner string, kind record.Kind, categories []string, opts ...Option) *Log {
	l := &Log{
		repo:       repo,
		ids:        ids,
		owner:      owner,
		kind:       kind,
		categories: append([]string(nil), categories...),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Kind returns the kind of records held by the log
func (l *Log) Kind() record.Kind {
	return l.kind
}

// Categories returns the closed category set of the log
func (l *Log) Categories() []string {
	return append([]string(nil), l.categories...)
}

// Add validates the draft and inserts it at the front of the list. A
// *record.ValidationError leaves the list untouched.
func (l *Log) Add(ctx context.Context, draft record.Draft) (*record.Record, error) {
	d := draft.Normalize()
	if err := record.Validate(l.kind, d, l.categories); err != nil {
		return nil, err
	}

	switch l.kind {
	case record.KindInteraction:
		if d.Energy == "" {
			d.Energy = record.EnergyMedium
		}
	default:
		d.Energy = ""
	}

	now := l.clock()
	id, err := l.ids.GenerateID(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate record ID: %w", err)
	}

	r := &record.Record{
		ID:        id,
		Owner:     l.owner,
		Kind:      l.kind,
		Category:  d.Category,
		Subject:   d.Subject,
		Text:      d.Text,
		Energy:    d.Energy,
		Tags:      d.Tags,
		CreatedAt: now,
	}
	if err := l.repo.Add(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to add %s record: %w", l.kind, err)
	}
	return r.Clone(), nil
}

// List returns every record, newest first
func (l *Log) List(ctx context.Context) ([]*record.Record, error) {
	return l.list(ctx, 0)
}

// Recent returns at most n records, newest first
func (l *Log) Recent(ctx context.Context, n int) ([]*record.Record, error) {
	if n <= 0 {
		return []*record.Record{}, nil
	}
	return l.list(ctx, n)
}

// Count returns the number of records in the log
func (l *Log) Count(ctx context.Context) (int, error) {
	records, err := l.list(ctx, 0)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// FilterByCategory returns a view of the list restricted to one category.
// "all" yields the whole list. A category without records yields nothing.
func (l *Log) FilterByCategory(ctx context.Context, category string) (iter.Seq[*record.Record], error) {
	records, err := l.list(ctx, 0)
	if err != nil {
		return nil, err
	}
	return filter(records, byCategory(category, func(r *record.Record) string { return r.Category })), nil
}

// Since returns the records created at or after t, newest first
func (l *Log) Since(ctx context.Context, t time.Time) (iter.Seq[*record.Record], error) {
	records, err := l.list(ctx, 0)
	if err != nil {
		return nil, err
	}
	return filter(records, func(r *record.Record) bool { return !r.CreatedAt.Before(t) }), nil
}

func (l *Log) list(ctx context.Context, limit int) ([]*record.Record, error) {
	records, err := l.repo.List(ctx, repository.RecordFilter{
		Owner: l.owner,
		Kind:  l.kind,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", l.kind, err)
	}
	return records, nil
}
