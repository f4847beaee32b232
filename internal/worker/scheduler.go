// Package worker hosts the background jobs and their shared scheduler.
package worker

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedules for the background jobs. The weekly evaluator ticks daily and
// gates itself to the reset weekday internally.
const (
	WeeklySchedule      = "0 4 * * *"
	OrientationSchedule = "*/30 * * * *"
)

// NewScheduler builds the UTC cron runner. A tick that arrives while the same
// job is still running is skipped, never queued.
func NewScheduler(logger *zap.Logger) *cron.Cron {
	cronLog := zapCronLogger{logger: logger.Named("cron")}

	return cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)
}

// zapCronLogger adapts zap to the cron logging interface.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
