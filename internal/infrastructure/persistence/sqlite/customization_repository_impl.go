package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// CustomizationRepositoryImpl implements repository.CustomizationRepository with SQLite
type CustomizationRepositoryImpl struct {
	db *sql.DB
}

// NewCustomizationRepository creates a new SQLite-based customization repository
func NewCustomizationRepository(db *sql.DB) repository.CustomizationRepository {
	return &CustomizationRepositoryImpl{db: db}
}

func (r *CustomizationRepositoryImpl) Find(ctx context.Context, owner, scriptID string) (string, error) {
	var text string
	err := executor(ctx, r.db).QueryRowContext(ctx,
		"SELECT text FROM script_customizations WHERE owner = ? AND script_id = ?",
		owner, scriptID,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find customization failed: %w", err)
	}
	return text, nil
}

func (r *CustomizationRepositoryImpl) List(ctx context.Context, owner string) (map[string]string, error) {
	rows, err := executor(ctx, r.db).QueryContext(ctx,
		"SELECT script_id, text FROM script_customizations WHERE owner = ?", owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query customizations failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var id, text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("scan customization failed: %w", err)
		}
		result[id] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customizations failed: %w", err)
	}
	return result, nil
}

func (r *CustomizationRepositoryImpl) Save(ctx context.Context, owner, scriptID, text string) error {
	_, err := executor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO script_customizations (owner, script_id, text, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner, script_id) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at
	`, owner, scriptID, text)
	if err != nil {
		return fmt.Errorf("save customization failed: %w", err)
	}
	return nil
}

func (r *CustomizationRepositoryImpl) Clear(ctx context.Context, owner, scriptID string) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		"DELETE FROM script_customizations WHERE owner = ? AND script_id = ?", owner, scriptID,
	)
	if err != nil {
		return fmt.Errorf("clear customization failed: %w", err)
	}
	return nil
}
