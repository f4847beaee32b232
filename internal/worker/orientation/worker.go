package orientation

import (
	"context"
	"fmt"
	"time"

	"github.com/scidept/sentinel/internal/database/types"
	"github.com/scidept/sentinel/internal/enforcement"
	"github.com/scidept/sentinel/pkg/utils"
	"go.uber.org/zap"
)

// store is the slice of the orientation model the poll needs.
type store interface {
	Pending(ctx context.Context) ([]*types.Orientation, error)
	SetWarned(ctx context.Context, memberID uint64) error
	SetExpiredHandled(ctx context.Context, memberID uint64) error
}

// alerter posts reminders to the orientation alert channel.
type alerter interface {
	OrientationAlert(title, description string, color int)
}

// enforcerIface removes members whose window lapsed.
type enforcerIface interface {
	OrientationExpired(ctx context.Context, memberID uint64) enforcement.Result
}

// Worker polls non-passed orientation records, firing the one-shot 5-day
// warning and enforcing expiry. Both transitions latch; a record is warned
// and enforced at most once regardless of poll frequency.
type Worker struct {
	store    store
	alerter  alerter
	enforcer enforcerIface
	logger   *zap.Logger
}

// New creates an orientation poll worker.
func New(store store, alerter alerter, enforcer enforcerIface, logger *zap.Logger) *Worker {
	return &Worker{
		store:    store,
		alerter:  alerter,
		enforcer: enforcer,
		logger:   logger.Named("orientation_worker"),
	}
}

// Run performs one poll tick.
func (w *Worker) Run(ctx context.Context) {
	if err := w.run(ctx, time.Now().UTC()); err != nil {
		w.logger.Error("Orientation poll failed", zap.Error(err))
	}
}

func (w *Worker) run(ctx context.Context, now time.Time) error {
	records, err := w.store.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending orientations: %w", err)
	}

	for _, record := range records {
		// Records without a deadline should not occur; skip rather than warn
		// or enforce off a zero time.
		if record.Deadline == nil {
			continue
		}

		if !record.Warned && record.InWarningBand(now) {
			w.warn(ctx, record, now)
		}

		if record.Remaining(now) <= 0 && !record.ExpiredHandled {
			w.expire(ctx, record)
		}
	}

	return nil
}

// warn fires the one-shot reminder and sets the latch.
func (w *Worker) warn(ctx context.Context, record *types.Orientation, now time.Time) {
	remaining := utils.HumanRemaining(record.Remaining(now))

	w.alerter.OrientationAlert("Orientation Reminder", fmt.Sprintf(
		"<@%d> hasn't completed their orientation yet and has **%s** to complete it, please check in with them.",
		record.MemberID, remaining), 0xE67E22)

	if err := w.store.SetWarned(ctx, record.MemberID); err != nil {
		w.logger.Error("Failed to latch orientation warning",
			zap.Uint64("memberID", record.MemberID),
			zap.Error(err))

		return
	}

	w.logger.Info("Orientation warning sent",
		zap.Uint64("memberID", record.MemberID),
		zap.String("remaining", remaining))
}

// expire enforces the lapsed window. The latch is set even when individual
// enforcement steps fail; a failed removal is followed up manually, not
// retried every poll.
func (w *Worker) expire(ctx context.Context, record *types.Orientation) {
	result := w.enforcer.OrientationExpired(ctx, record.MemberID)

	if err := w.store.SetExpiredHandled(ctx, record.MemberID); err != nil {
		w.logger.Error("Failed to latch orientation expiry",
			zap.Uint64("memberID", record.MemberID),
			zap.Error(err))

		return
	}

	w.logger.Info("Orientation expiry enforced",
		zap.Uint64("memberID", record.MemberID),
		zap.Bool("kicked", result.Kicked),
		zap.String("groupOutcome", result.GroupOutcome.String()))
}
