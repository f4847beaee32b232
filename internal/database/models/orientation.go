package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// OrientationModel handles database operations for orientation windows.
type OrientationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewOrientation creates a new orientation model.
func NewOrientation(db *bun.DB, logger *zap.Logger) *OrientationModel {
	return &OrientationModel{
		db:     db,
		logger: logger.Named("db_orientation"),
	}
}

// Get returns a member's orientation record, or nil when none exists.
func (r *OrientationModel) Get(ctx context.Context, memberID uint64) (*types.Orientation, error) {
	record := new(types.Orientation)

	err := r.db.NewSelect().
		Model(record).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get orientation record: %w", err)
	}

	return record, nil
}

// EnsureRecord opens an orientation window for a member if one does not
// already exist. The insert is conditional, so repeated role grants and
// lazy status queries leave an existing window untouched. Returns true when
// a new record was created.
func (r *OrientationModel) EnsureRecord(ctx context.Context, memberID uint64, now time.Time) (bool, error) {
	deadline := now.Add(types.OrientationWindow)
	record := &types.Orientation{
		MemberID:   memberID,
		AssignedAt: now,
		Deadline:   &deadline,
	}

	res, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (member_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to ensure orientation record: %w", err)
	}

	affected, _ := res.RowsAffected()

	return affected > 0, nil
}

// MarkPassed records a pass, creating the record if absent. Passing also
// force-sets both latches so the poll can never warn or enforce afterwards.
func (r *OrientationModel) MarkPassed(ctx context.Context, memberID uint64, now time.Time) error {
	deadline := now.Add(types.OrientationWindow)
	record := &types.Orientation{
		MemberID:       memberID,
		AssignedAt:     now,
		Deadline:       &deadline,
		Passed:         true,
		PassedAt:       &now,
		Warned:         true,
		ExpiredHandled: true,
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (member_id) DO UPDATE").
		Set("passed = TRUE").
		Set("passed_at = EXCLUDED.passed_at").
		Set("warned_5d = TRUE").
		Set("expired_handled = TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark orientation passed: %w", err)
	}

	return nil
}

// Pending returns every record that has not passed orientation yet,
// regardless of latch state.
func (r *OrientationModel) Pending(ctx context.Context) ([]*types.Orientation, error) {
	var records []*types.Orientation

	err := r.db.NewSelect().
		Model(&records).
		Where("passed = FALSE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending orientations: %w", err)
	}

	return records, nil
}

// SetWarned latches the 5-day warning for a member. Fires-once; the poll
// never calls this twice because it filters on the latch, but the update is
// idempotent regardless.
func (r *OrientationModel) SetWarned(ctx context.Context, memberID uint64) error {
	_, err := r.db.NewUpdate().
		Model((*types.Orientation)(nil)).
		Set("warned_5d = TRUE").
		Where("member_id = ?", memberID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set orientation warning latch: %w", err)
	}

	return nil
}

// SetExpiredHandled latches expiry enforcement for a member. Set exactly once
// per record even when individual enforcement steps failed, so a failed
// removal is followed up manually rather than retried every poll.
func (r *OrientationModel) SetExpiredHandled(ctx context.Context, memberID uint64) error {
	_, err := r.db.NewUpdate().
		Model((*types.Orientation)(nil)).
		Set("expired_handled = TRUE").
		Where("member_id = ?", memberID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set orientation expiry latch: %w", err)
	}

	return nil
}
