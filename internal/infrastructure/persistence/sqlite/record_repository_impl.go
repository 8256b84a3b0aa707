package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// RecordRepositoryImpl implements repository.RecordRepository with SQLite
type RecordRepositoryImpl struct {
	db *sql.DB
}

// NewRecordRepository creates a new SQLite-based record repository
func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &RecordRepositoryImpl{db: db}
}

const recordColumns = `id, owner, kind, category, subject, text, energy, tags, created_at`

// Add inserts a record. Its autoincrement seq places it at the front of the list.
func (r *RecordRepositoryImpl) Add(ctx context.Context, rec *record.Record) error {
	tagsJSON, err := marshalTags(rec.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO records (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = executor(ctx, r.db).ExecContext(ctx, query,
		rec.ID.String(), rec.Owner, rec.Kind.String(), rec.Category,
		rec.Subject, rec.Text, string(rec.Energy), tagsJSON, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert record failed: %w", err)
	}
	return nil
}

// List retrieves records by filter, newest first
func (r *RecordRepositoryImpl) List(ctx context.Context, filter repository.RecordFilter) ([]*record.Record, error) {
	var (
		where = []string{"owner = ?"}
		args  = []interface{}{filter.Owner}
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind.String())
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}

	query := `SELECT ` + recordColumns + ` FROM records WHERE ` + strings.Join(where, " AND ") + ` ORDER BY seq DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records failed: %w", err)
	}
	defer rows.Close()

	result := []*record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records failed: %w", err)
	}
	return result, nil
}

// FindByID retrieves a record by its ID
func (r *RecordRepositoryImpl) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	rec, err := scanRecord(executor(ctx, r.db).QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRecordNotFound, id)
	}
	return rec, err
}

// Update replaces the mutable columns of a record, keeping its seq
func (r *RecordRepositoryImpl) Update(ctx context.Context, rec *record.Record) error {
	tagsJSON, err := marshalTags(rec.Tags)
	if err != nil {
		return err
	}

	result, err := executor(ctx, r.db).ExecContext(ctx, `
		UPDATE records
		SET category = ?, subject = ?, text = ?, energy = ?, tags = ?
		WHERE id = ?
	`, rec.Category, rec.Subject, rec.Text, string(rec.Energy), tagsJSON, rec.ID.String())
	if err != nil {
		return fmt.Errorf("update record failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected failed: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", repository.ErrRecordNotFound, rec.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*record.Record, error) {
	var (
		id, kind, energy, tagsJSON string
		createdAt                  time.Time
		rec                        record.Record
	)
	err := row.Scan(&id, &rec.Owner, &kind, &rec.Category, &rec.Subject, &rec.Text, &energy, &tagsJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record failed: %w", err)
	}

	rec.ID = record.ID(id)
	rec.Kind = record.Kind(kind)
	rec.Energy = record.Energy(energy)
	rec.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags failed: %w", err)
	}
	if len(rec.Tags) == 0 {
		rec.Tags = nil
	}
	return &rec, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags failed: %w", err)
	}
	return string(b), nil
}
