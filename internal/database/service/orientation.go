package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scidept/sentinel/internal/database/models"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyPassed is returned when an extension targets a member who
	// has already passed orientation.
	ErrAlreadyPassed = errors.New("member has already passed orientation")
	// ErrNoOrientation is returned when an extension targets a member with
	// no orientation window.
	ErrNoOrientation = errors.New("member has no orientation window")
)

// OrientationService handles orientation window transitions.
type OrientationService struct {
	db     *bun.DB
	model  *models.OrientationModel
	logger *zap.Logger
}

// NewOrientation creates a new orientation service.
func NewOrientation(db *bun.DB, model *models.OrientationModel, logger *zap.Logger) *OrientationService {
	return &OrientationService{
		db:     db,
		model:  model,
		logger: logger.Named("orientation_service"),
	}
}

// Ensure opens a member's orientation window if none exists. Returns the
// record as it stands after the call and whether it was newly created.
func (s *OrientationService) Ensure(ctx context.Context, memberID uint64) (*types.Orientation, bool, error) {
	created, err := s.model.EnsureRecord(ctx, memberID, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}

	record, err := s.model.Get(ctx, memberID)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("Orientation window opened", zap.Uint64("memberID", memberID))
	}

	return record, created, nil
}

// Pass marks a member as having passed orientation. Safe to call whether or
// not a window exists; passing is terminal and idempotent.
func (s *OrientationService) Pass(ctx context.Context, memberID uint64) error {
	if err := s.model.MarkPassed(ctx, memberID, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info("Orientation passed", zap.Uint64("memberID", memberID))

	return nil
}

// Extend pushes a member's deadline forward by the given number of days from
// its current value and returns the new deadline. Extending a passed member
// returns ErrAlreadyPassed. Extending past the warning threshold does not
// reset a fired warning.
func (s *OrientationService) Extend(ctx context.Context, memberID uint64, days int) (time.Time, error) {
	var newDeadline time.Time

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := new(types.Orientation)

		err := tx.NewSelect().
			Model(record).
			Where("member_id = ?", memberID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoOrientation
			}

			return fmt.Errorf("failed to get orientation record: %w", err)
		}

		if record.Passed {
			return ErrAlreadyPassed
		}

		base := time.Now().UTC()
		if record.Deadline != nil {
			base = *record.Deadline
		}

		newDeadline = base.AddDate(0, 0, days)

		_, err = tx.NewUpdate().
			Model((*types.Orientation)(nil)).
			Set("deadline = ?", newDeadline).
			Where("member_id = ?", memberID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update orientation deadline: %w", err)
		}

		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	s.logger.Info("Orientation extended",
		zap.Uint64("memberID", memberID),
		zap.Int("days", days),
		zap.Time("deadline", newDeadline))

	return newDeadline, nil
}
