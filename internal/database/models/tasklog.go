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

// TypeCount is a per-task-type tally for a member's lifetime history.
type TypeCount struct {
	TaskType string `bun:"task_type"`
	Count    int    `bun:"cnt"`
}

// TaskLogModel handles database operations for task submission logs.
type TaskLogModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTaskLog creates a new task log model.
func NewTaskLog(db *bun.DB, logger *zap.Logger) *TaskLogModel {
	return &TaskLogModel{
		db:     db,
		logger: logger.Named("db_tasklog"),
	}
}

// NextSequenceTx returns the next sequence number for a member's numbered
// task type, counted inside the transaction so concurrent submissions cannot
// claim the same number.
func (r *TaskLogModel) NextSequenceTx(
	ctx context.Context, tx bun.Tx, memberID uint64, taskType string,
) (int, error) {
	count, err := tx.NewSelect().
		Model((*types.TaskLog)(nil)).
		Where("member_id = ?", memberID).
		Where("task_type = ?", taskType).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count task logs for sequence: %w", err)
	}

	return count + 1, nil
}

// InsertTx writes a submission into both the permanent and the weekly log
// inside the transaction.
func (r *TaskLogModel) InsertTx(ctx context.Context, tx bun.Tx, log *types.TaskLog) error {
	if _, err := tx.NewInsert().Model(log).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert task log: %w", err)
	}

	weekly := &types.WeeklyTaskLog{
		MemberID:   log.MemberID,
		TaskType:   log.TaskType,
		ProofURL:   log.ProofURL,
		Comments:   log.Comments,
		LoggedAt:   log.LoggedAt,
		SequenceNo: log.SequenceNo,
	}
	if _, err := tx.NewInsert().Model(weekly).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert weekly task log: %w", err)
	}

	return nil
}

// TotalsByType returns a member's lifetime submission counts grouped by task
// type, busiest type first.
func (r *TaskLogModel) TotalsByType(ctx context.Context, memberID uint64) ([]TypeCount, error) {
	var totals []TypeCount

	err := r.db.NewSelect().
		Model((*types.TaskLog)(nil)).
		ColumnExpr("task_type, COUNT(*) AS cnt").
		Where("member_id = ?", memberID).
		GroupExpr("task_type").
		OrderExpr("cnt DESC, task_type ASC").
		Scan(ctx, &totals)
	if err != nil {
		return nil, fmt.Errorf("failed to get task totals: %w", err)
	}

	return totals, nil
}

// Total returns a member's lifetime submission count.
func (r *TaskLogModel) Total(ctx context.Context, memberID uint64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.TaskLog)(nil)).
		Where("member_id = ?", memberID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count task logs: %w", err)
	}

	return count, nil
}

// GetBySequence returns a member's numbered submission, or nil when that
// number does not exist.
func (r *TaskLogModel) GetBySequence(
	ctx context.Context, memberID uint64, taskType string, sequenceNo int,
) (*types.TaskLog, error) {
	log := new(types.TaskLog)

	err := r.db.NewSelect().
		Model(log).
		Where("member_id = ?", memberID).
		Where("task_type = ?", taskType).
		Where("sequence_no = ?", sequenceNo).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get task log by sequence: %w", err)
	}

	return log, nil
}

// MaxSequence returns the highest sequence number a member has for a task
// type, zero when none exist.
func (r *TaskLogModel) MaxSequence(ctx context.Context, memberID uint64, taskType string) (int, error) {
	var max sql.NullInt64

	err := r.db.NewSelect().
		Model((*types.TaskLog)(nil)).
		ColumnExpr("MAX(sequence_no)").
		Where("member_id = ?", memberID).
		Where("task_type = ?", taskType).
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence: %w", err)
	}

	return int(max.Int64), nil
}

// LastWeeklyTx returns a member's newest weekly submission inside the
// transaction, or nil when the member logged nothing this week.
func (r *TaskLogModel) LastWeeklyTx(ctx context.Context, tx bun.Tx, memberID uint64) (*types.WeeklyTaskLog, error) {
	log := new(types.WeeklyTaskLog)

	err := tx.NewSelect().
		Model(log).
		Where("member_id = ?", memberID).
		Order("logged_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get last weekly task log: %w", err)
	}

	return log, nil
}

// DeleteWeeklyTx removes one weekly submission row inside the transaction.
func (r *TaskLogModel) DeleteWeeklyTx(ctx context.Context, tx bun.Tx, logID uint64) error {
	_, err := tx.NewDelete().
		Model((*types.WeeklyTaskLog)(nil)).
		Where("log_id = ?", logID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete weekly task log: %w", err)
	}

	return nil
}
