package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ExcuseModel handles database operations for weekly activity excuses.
type ExcuseModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewExcuse creates a new excuse model.
func NewExcuse(db *bun.DB, logger *zap.Logger) *ExcuseModel {
	return &ExcuseModel{
		db:     db,
		logger: logger.Named("db_excuse"),
	}
}

// Upsert sets or replaces the excuse for a week.
func (r *ExcuseModel) Upsert(ctx context.Context, excuse *types.ActivityExcuse) error {
	_, err := r.db.NewInsert().
		Model(excuse).
		On("CONFLICT (week_key) DO UPDATE").
		Set("reason = EXCLUDED.reason").
		Set("set_by = EXCLUDED.set_by").
		Set("set_at = EXCLUDED.set_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert activity excuse: %w", err)
	}

	return nil
}

// Get returns the excuse for a week, or nil when the week is not excused.
func (r *ExcuseModel) Get(ctx context.Context, weekKey string) (*types.ActivityExcuse, error) {
	excuse := new(types.ActivityExcuse)

	err := r.db.NewSelect().
		Model(excuse).
		Where("week_key = ?", weekKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get activity excuse: %w", err)
	}

	return excuse, nil
}

// Clear removes the excuse for a week if one exists.
func (r *ExcuseModel) Clear(ctx context.Context, weekKey string) error {
	_, err := r.db.NewDelete().
		Model((*types.ActivityExcuse)(nil)).
		Where("week_key = ?", weekKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear activity excuse: %w", err)
	}

	return nil
}
