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

// ActivityModel handles database operations for weekly counters and on-site
// sessions.
type ActivityModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewActivity creates a new activity model.
func NewActivity(db *bun.DB, logger *zap.Logger) *ActivityModel {
	return &ActivityModel{
		db:     db,
		logger: logger.Named("db_activity"),
	}
}

// IncrementTasksTx adds count to a member's weekly task counter inside the
// transaction, creating the row if absent, and returns the new total.
func (r *ActivityModel) IncrementTasksTx(
	ctx context.Context, tx bun.Tx, memberID uint64, count int,
) (int, error) {
	counter := &types.WeeklyTask{
		MemberID:       memberID,
		TasksCompleted: count,
	}

	_, err := tx.NewInsert().
		Model(counter).
		On("CONFLICT (member_id) DO UPDATE").
		Set("tasks_completed = weekly_task.tasks_completed + EXCLUDED.tasks_completed").
		Returning("tasks_completed").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to increment weekly tasks: %w", err)
	}

	return counter.TasksCompleted, nil
}

// DecrementTasksTx subtracts one from a member's weekly task counter inside
// the transaction, flooring at zero, and returns the new total.
func (r *ActivityModel) DecrementTasksTx(ctx context.Context, tx bun.Tx, memberID uint64) (int, error) {
	counter := &types.WeeklyTask{MemberID: memberID}

	res, err := tx.NewUpdate().
		Model(counter).
		Set("tasks_completed = GREATEST(tasks_completed - 1, 0)").
		WherePK().
		Returning("tasks_completed").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement weekly tasks: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return 0, nil
	}

	return counter.TasksCompleted, nil
}

// TasksCompleted returns a member's weekly task count, zero when no row exists.
func (r *ActivityModel) TasksCompleted(ctx context.Context, memberID uint64) (int, error) {
	counter := new(types.WeeklyTask)

	err := r.db.NewSelect().
		Model(counter).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to get weekly tasks: %w", err)
	}

	return counter.TasksCompleted, nil
}

// TimeSpentSeconds returns a member's accumulated on-site seconds this week,
// zero when no row exists.
func (r *ActivityModel) TimeSpentSeconds(ctx context.Context, memberID uint64) (int, error) {
	row := new(types.SiteTime)

	err := r.db.NewSelect().
		Model(row).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to get site time: %w", err)
	}

	return row.TimeSpentSeconds, nil
}

// TaskCounts returns the weekly task counter for every member that has one.
func (r *ActivityModel) TaskCounts(ctx context.Context) (map[uint64]int, error) {
	var counters []*types.WeeklyTask

	err := r.db.NewSelect().
		Model(&counters).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly task counters: %w", err)
	}

	counts := make(map[uint64]int, len(counters))
	for _, counter := range counters {
		counts[counter.MemberID] = counter.TasksCompleted
	}

	return counts, nil
}

// TimeCounts returns the accumulated on-site seconds for every member that
// has a time row.
func (r *ActivityModel) TimeCounts(ctx context.Context) (map[uint64]int, error) {
	var rows []*types.SiteTime

	err := r.db.NewSelect().
		Model(&rows).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get site time counters: %w", err)
	}

	counts := make(map[uint64]int, len(rows))
	for _, row := range rows {
		counts[row.MemberID] = row.TimeSpentSeconds
	}

	return counts, nil
}

// OpenSession upserts the open session for a player, replacing any stale
// start time from a "joined" event that never saw a matching "left".
func (r *ActivityModel) OpenSession(ctx context.Context, robloxID uint64, start time.Time) error {
	session := &types.SiteSession{
		RobloxID:  robloxID,
		StartTime: start,
	}

	_, err := r.db.NewInsert().
		Model(session).
		On("CONFLICT (roblox_id) DO UPDATE").
		Set("start_time = EXCLUDED.start_time").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	return nil
}

// SessionTx returns the open session for a player inside the transaction, or
// nil when none exists.
func (r *ActivityModel) SessionTx(ctx context.Context, tx bun.Tx, robloxID uint64) (*types.SiteSession, error) {
	session := new(types.SiteSession)

	err := tx.NewSelect().
		Model(session).
		Where("roblox_id = ?", robloxID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSessionTx removes a player's open session inside the transaction.
func (r *ActivityModel) DeleteSessionTx(ctx context.Context, tx bun.Tx, robloxID uint64) error {
	_, err := tx.NewDelete().
		Model((*types.SiteSession)(nil)).
		Where("roblox_id = ?", robloxID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// AddTimeTx folds seconds into a member's weekly time counter inside the
// transaction, creating the row if absent, and returns the new total.
func (r *ActivityModel) AddTimeTx(ctx context.Context, tx bun.Tx, memberID uint64, seconds int) (int, error) {
	row := &types.SiteTime{
		MemberID:         memberID,
		TimeSpentSeconds: seconds,
	}

	_, err := tx.NewInsert().
		Model(row).
		On("CONFLICT (member_id) DO UPDATE").
		Set("time_spent_seconds = site_time.time_spent_seconds + EXCLUDED.time_spent_seconds").
		Returning("time_spent_seconds").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to add site time: %w", err)
	}

	return row.TimeSpentSeconds, nil
}

// ResetWeek truncates every weekly table in one statement: task counters,
// weekly task logs, time counters and any open sessions. This is the hard
// weekly reset; it intentionally covers all members, not just the evaluated
// roster.
func (r *ActivityModel) ResetWeek(ctx context.Context) error {
	_, err := r.db.NewRaw("TRUNCATE TABLE weekly_tasks, weekly_task_logs, site_times, site_sessions").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset weekly tables: %w", err)
	}

	r.logger.Info("Weekly counters and sessions truncated")

	return nil
}
