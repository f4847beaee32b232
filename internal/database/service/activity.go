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

// ActivityService handles task submissions, batch adjustments and session
// accounting.
type ActivityService struct {
	db       *bun.DB
	activity *models.ActivityModel
	taskLog  *models.TaskLogModel
	link     *models.LinkModel
	logger   *zap.Logger
}

// NewActivity creates a new activity service.
func NewActivity(
	db *bun.DB,
	activity *models.ActivityModel,
	taskLog *models.TaskLogModel,
	link *models.LinkModel,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		db:       db,
		activity: activity,
		taskLog:  taskLog,
		link:     link,
		logger:   logger.Named("activity_service"),
	}
}

// LogTask records a task submission in both logs and bumps the weekly
// counter. Numbered task types claim their sequence number inside the same
// transaction as the insert. Returns the stored log and the member's new
// weekly total.
func (s *ActivityService) LogTask(
	ctx context.Context, memberID uint64, taskType, proofURL, comments string,
) (*types.TaskLog, int, error) {
	log := &types.TaskLog{
		MemberID: memberID,
		TaskType: taskType,
		ProofURL: proofURL,
		Comments: comments,
		LoggedAt: time.Now().UTC(),
	}

	var weekly int

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if types.IsNumberedTaskType(taskType) {
			seq, err := s.taskLog.NextSequenceTx(ctx, tx, memberID, taskType)
			if err != nil {
				return err
			}

			log.SequenceNo = &seq
		}

		if err := s.taskLog.InsertTx(ctx, tx, log); err != nil {
			return err
		}

		total, err := s.activity.IncrementTasksTx(ctx, tx, memberID, 1)
		if err != nil {
			return err
		}

		weekly = total

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to log task: %w", err)
	}

	return log, weekly, nil
}

// AddTaskBatch records count management-added submissions of one type and
// bumps the weekly counter by count. Numbered task types claim a contiguous
// block of sequence numbers; the first number of the block is returned so the
// caller can render a range. Everything runs in one transaction.
func (s *ActivityService) AddTaskBatch(
	ctx context.Context, memberID uint64, taskType, proofURL, comments string, count int,
) (*int, int, error) {
	now := time.Now().UTC()

	var (
		startSeq *int
		weekly   int
	)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if types.IsNumberedTaskType(taskType) {
			seq, err := s.taskLog.NextSequenceTx(ctx, tx, memberID, taskType)
			if err != nil {
				return err
			}

			startSeq = &seq
		}

		for i := range count {
			log := &types.TaskLog{
				MemberID: memberID,
				TaskType: taskType,
				ProofURL: proofURL,
				Comments: comments,
				LoggedAt: now,
			}

			if startSeq != nil {
				seq := *startSeq + i
				log.SequenceNo = &seq
			}

			if err := s.taskLog.InsertTx(ctx, tx, log); err != nil {
				return err
			}
		}

		total, err := s.activity.IncrementTasksTx(ctx, tx, memberID, count)
		if err != nil {
			return err
		}

		weekly = total

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to add task batch: %w", err)
	}

	return startSeq, weekly, nil
}

// RemoveLastLog deletes a member's newest weekly submission and decrements
// the weekly counter. Returns the removed log, or nil when the member has no
// weekly submissions.
func (s *ActivityService) RemoveLastLog(ctx context.Context, memberID uint64) (*types.WeeklyTaskLog, error) {
	var removed *types.WeeklyTaskLog

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		last, err := s.taskLog.LastWeeklyTx(ctx, tx, memberID)
		if err != nil {
			return err
		}

		if last == nil {
			return nil
		}

		if err := s.taskLog.DeleteWeeklyTx(ctx, tx, last.ID); err != nil {
			return err
		}

		if _, err := s.activity.DecrementTasksTx(ctx, tx, memberID); err != nil {
			return err
		}

		removed = last

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove last log: %w", err)
	}

	return removed, nil
}

// OpenSession records the start of a player's site session.
func (s *ActivityService) OpenSession(ctx context.Context, robloxID uint64, start time.Time) error {
	return s.activity.OpenSession(ctx, robloxID, start)
}

// TimeSpentSeconds returns a member's accumulated on-site seconds this week.
func (s *ActivityService) TimeSpentSeconds(ctx context.Context, memberID uint64) (int, error) {
	return s.activity.TimeSpentSeconds(ctx, memberID)
}

// CloseSession ends a player's open session, folds the elapsed seconds into
// the linked member's weekly time, and returns the member and session length.
// A "left" event with no open session or no linked member is a no-op; both
// return zero values.
func (s *ActivityService) CloseSession(ctx context.Context, robloxID uint64) (uint64, time.Duration, error) {
	memberID, err := s.link.MemberID(ctx, robloxID)
	if err != nil {
		return 0, 0, err
	}

	var elapsed time.Duration

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		session, err := s.activity.SessionTx(ctx, tx, robloxID)
		if err != nil {
			return err
		}

		if session == nil {
			return nil
		}

		if err := s.activity.DeleteSessionTx(ctx, tx, robloxID); err != nil {
			return err
		}

		elapsed = time.Since(session.StartTime)
		if elapsed < 0 {
			elapsed = 0
		}

		if memberID == 0 {
			return nil
		}

		_, err = s.activity.AddTimeTx(ctx, tx, memberID, int(elapsed.Seconds()))

		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to close session: %w", err)
	}

	if elapsed > 0 {
		s.logger.Debug("Session closed",
			zap.Uint64("robloxID", robloxID),
			zap.Uint64("memberID", memberID),
			zap.Duration("elapsed", elapsed))
	}

	return memberID, elapsed, nil
}
