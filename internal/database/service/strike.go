package service

import (
	"context"
	"fmt"
	"time"

	"github.com/scidept/sentinel/internal/database/models"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// StrikeService handles strike issuance and removal.
type StrikeService struct {
	db     *bun.DB
	model  *models.StrikeModel
	logger *zap.Logger
}

// NewStrike creates a new strike service.
func NewStrike(db *bun.DB, model *models.StrikeModel, logger *zap.Logger) *StrikeService {
	return &StrikeService{
		db:     db,
		model:  model,
		logger: logger.Named("strike_service"),
	}
}

// IssueStrike records a strike and returns the member's active count with the
// new strike included. Insert and count run in one transaction so two
// concurrent issuances cannot both observe a pre-threshold count.
func (s *StrikeService) IssueStrike(
	ctx context.Context, memberID uint64, reason string, setBy *uint64, auto bool,
) (*types.Strike, int, error) {
	now := time.Now().UTC()
	strike := &types.Strike{
		MemberID:  memberID,
		Reason:    reason,
		IssuedAt:  now,
		ExpiresAt: now.Add(types.StrikeDuration),
		SetBy:     setBy,
		Auto:      auto,
	}

	var active int

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.Insert(ctx, tx, strike); err != nil {
			return err
		}

		count, err := s.model.ActiveCountTx(ctx, tx, memberID, now)
		if err != nil {
			return err
		}

		active = count

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to issue strike: %w", err)
	}

	s.logger.Info("Strike issued",
		zap.Uint64("memberID", memberID),
		zap.Int("activeCount", active),
		zap.Bool("auto", auto))

	return strike, active, nil
}

// RemoveStrikes deletes up to count of a member's active strikes, earliest
// expiry first, and returns how many were removed plus the remaining active
// count. Selection, deletion and recount share one transaction.
func (s *StrikeService) RemoveStrikes(ctx context.Context, memberID uint64, count int) (int, int, error) {
	now := time.Now().UTC()

	var removed, remaining int

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		strikes, err := s.model.ActiveStrikesForRemovalTx(ctx, tx, memberID, now, count)
		if err != nil {
			return err
		}

		ids := make([]uint64, len(strikes))
		for i, strike := range strikes {
			ids[i] = strike.ID
		}

		if err := s.model.DeleteByIDs(ctx, tx, ids); err != nil {
			return err
		}

		removed = len(ids)

		remaining, err = s.model.ActiveCountTx(ctx, tx, memberID, now)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to remove strikes: %w", err)
	}

	s.logger.Info("Strikes removed",
		zap.Uint64("memberID", memberID),
		zap.Int("removed", removed),
		zap.Int("remaining", remaining))

	return removed, remaining, nil
}
