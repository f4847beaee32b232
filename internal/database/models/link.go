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

// LinkModel handles database operations for Roblox account links and stored
// member ranks.
type LinkModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLink creates a new link model.
func NewLink(db *bun.DB, logger *zap.Logger) *LinkModel {
	return &LinkModel{
		db:     db,
		logger: logger.Named("db_link"),
	}
}

// UpsertLink stores or replaces a member's verified Roblox account.
func (r *LinkModel) UpsertLink(ctx context.Context, memberID, robloxID uint64) error {
	link := &types.RobloxLink{
		MemberID: memberID,
		RobloxID: robloxID,
	}

	_, err := r.db.NewInsert().
		Model(link).
		On("CONFLICT (member_id) DO UPDATE").
		Set("roblox_id = EXCLUDED.roblox_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert roblox link: %w", err)
	}

	return nil
}

// RobloxID returns the linked Roblox account for a member, zero when the
// member never verified.
func (r *LinkModel) RobloxID(ctx context.Context, memberID uint64) (uint64, error) {
	link := new(types.RobloxLink)

	err := r.db.NewSelect().
		Model(link).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to get roblox link: %w", err)
	}

	return link.RobloxID, nil
}

// MemberID returns the member linked to a Roblox account, zero when the
// account is unknown. Unknown accounts are a silent no-op for the webhook.
func (r *LinkModel) MemberID(ctx context.Context, robloxID uint64) (uint64, error) {
	link := new(types.RobloxLink)

	err := r.db.NewSelect().
		Model(link).
		Where("roblox_id = ?", robloxID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to get roblox link by roblox id: %w", err)
	}

	return link.MemberID, nil
}

// UpsertRank stores the rank last assigned to a member via /rank.
func (r *LinkModel) UpsertRank(ctx context.Context, rank *types.MemberRank) error {
	_, err := r.db.NewInsert().
		Model(rank).
		On("CONFLICT (member_id) DO UPDATE").
		Set("rank = EXCLUDED.rank").
		Set("set_by = EXCLUDED.set_by").
		Set("set_at = EXCLUDED.set_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert member rank: %w", err)
	}

	return nil
}

// Rank returns the stored rank name for a member, empty when none was set.
func (r *LinkModel) Rank(ctx context.Context, memberID uint64) (string, error) {
	rank := new(types.MemberRank)

	err := r.db.NewSelect().
		Model(rank).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("failed to get member rank: %w", err)
	}

	return rank.Rank, nil
}
