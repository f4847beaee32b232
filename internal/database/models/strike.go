package models

import (
	"context"
	"fmt"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// StrikeModel handles database operations for the strike ledger.
type StrikeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStrike creates a new strike model.
func NewStrike(db *bun.DB, logger *zap.Logger) *StrikeModel {
	return &StrikeModel{
		db:     db,
		logger: logger.Named("db_strike"),
	}
}

// Insert adds a strike row inside the given transaction.
func (r *StrikeModel) Insert(ctx context.Context, tx bun.Tx, strike *types.Strike) error {
	_, err := tx.NewInsert().
		Model(strike).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert strike: %w", err)
	}

	return nil
}

// ActiveCount returns the number of unexpired strikes for a member.
func (r *StrikeModel) ActiveCount(ctx context.Context, memberID uint64, now time.Time) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.Strike)(nil)).
		Where("member_id = ?", memberID).
		Where("expires_at > ?", now).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active strikes: %w", err)
	}

	return count, nil
}

// ActiveCountTx is ActiveCount evaluated inside a transaction, so an
// issue-then-count sequence observes its own insert without racing a
// concurrent issuance.
func (r *StrikeModel) ActiveCountTx(ctx context.Context, tx bun.Tx, memberID uint64, now time.Time) (int, error) {
	count, err := tx.NewSelect().
		Model((*types.Strike)(nil)).
		Where("member_id = ?", memberID).
		Where("expires_at > ?", now).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active strikes: %w", err)
	}

	return count, nil
}

// TotalCount returns the lifetime strike count for a member, expired included.
func (r *StrikeModel) TotalCount(ctx context.Context, memberID uint64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.Strike)(nil)).
		Where("member_id = ?", memberID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count strikes: %w", err)
	}

	return count, nil
}

// ActiveStrikes returns a member's unexpired strikes, soonest expiry first.
func (r *StrikeModel) ActiveStrikes(ctx context.Context, memberID uint64, now time.Time) ([]*types.Strike, error) {
	var strikes []*types.Strike

	err := r.db.NewSelect().
		Model(&strikes).
		Where("member_id = ?", memberID).
		Where("expires_at > ?", now).
		Order("expires_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active strikes: %w", err)
	}

	return strikes, nil
}

// ActiveCounts returns the active strike count per member at the given
// instant, for every member with at least one active strike.
func (r *StrikeModel) ActiveCounts(ctx context.Context, now time.Time) (map[uint64]int, error) {
	var rows []struct {
		MemberID uint64 `bun:"member_id"`
		Count    int    `bun:"cnt"`
	}

	err := r.db.NewSelect().
		Model((*types.Strike)(nil)).
		ColumnExpr("member_id, COUNT(*) AS cnt").
		Where("expires_at > ?", now).
		GroupExpr("member_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count active strikes per member: %w", err)
	}

	counts := make(map[uint64]int, len(rows))
	for _, row := range rows {
		counts[row.MemberID] = row.Count
	}

	return counts, nil
}

// ActiveStrikesForRemovalTx selects up to limit active strikes inside the
// transaction, earliest-expiring first. Manual removal deletes those closest
// to expiring naturally, keeping the longer-lived strikes as the stronger
// signal.
func (r *StrikeModel) ActiveStrikesForRemovalTx(
	ctx context.Context, tx bun.Tx, memberID uint64, now time.Time, limit int,
) ([]*types.Strike, error) {
	var strikes []*types.Strike

	err := tx.NewSelect().
		Model(&strikes).
		Where("member_id = ?", memberID).
		Where("expires_at > ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to select strikes for removal: %w", err)
	}

	return strikes, nil
}

// DeleteByIDs removes the given strike rows inside the transaction.
func (r *StrikeModel) DeleteByIDs(ctx context.Context, tx bun.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := tx.NewDelete().
		Model((*types.Strike)(nil)).
		Where("strike_id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete strikes: %w", err)
	}

	return nil
}
