package weekly

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/scidept/sentinel/internal/enforcement"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/scidept/sentinel/pkg/utils"
	"go.uber.org/zap"
)

// Member is one roster entry, bot accounts already excluded.
type Member struct {
	ID   uint64
	Name string
}

// store is the slice of the database layer the evaluator reads and resets.
type store interface {
	TaskCounts(ctx context.Context) (map[uint64]int, error)
	TimeCounts(ctx context.Context) (map[uint64]int, error)
	ActiveStrikeCounts(ctx context.Context, now time.Time) (map[uint64]int, error)
	Excuse(ctx context.Context, weekKey string) (*types.ActivityExcuse, error)
	ResetWeek(ctx context.Context) error
}

// striker issues quota strikes.
type striker interface {
	IssueStrike(ctx context.Context, memberID uint64, reason string, setBy *uint64, auto bool) (*types.Strike, int, error)
}

// enforcer removes members who hit the strike threshold.
type enforcerIface interface {
	ThreeStrikes(ctx context.Context, memberID uint64) enforcement.Result
}

// roster lists current department members.
type roster interface {
	DepartmentMembers(ctx context.Context) ([]Member, error)
}

// reporter delivers the weekly report and notices.
type reporter interface {
	Announce(title, description string, color int, footer string) error
	LogAction(title, description string)
	DM(userID snowflake.ID, content string) bool
}

// Worker runs the weekly compliance evaluation. The cron tick fires daily;
// the run exits immediately unless the UTC weekday is the reset day.
type Worker struct {
	store    store
	striker  striker
	enforcer enforcerIface
	roster   roster
	reporter reporter
	reqs     *config.Requirements
	logger   *zap.Logger
}

// New creates a weekly evaluation worker.
func New(
	store store,
	striker striker,
	enforcer enforcerIface,
	roster roster,
	reporter reporter,
	reqs *config.Requirements,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		store:    store,
		striker:  striker,
		enforcer: enforcer,
		roster:   roster,
		reporter: reporter,
		reqs:     reqs,
		logger:   logger.Named("weekly_worker"),
	}
}

// Run performs one tick. Gated to Sunday so the daily cron only evaluates at
// the week boundary; re-running mid-week would wipe accumulating progress.
func (w *Worker) Run(ctx context.Context) {
	now := time.Now().UTC()
	if now.Weekday() != time.Sunday {
		return
	}

	if err := w.run(ctx, now); err != nil {
		w.logger.Error("Weekly evaluation failed", zap.Error(err))
	}
}

func (w *Worker) run(ctx context.Context, now time.Time) error {
	weekKey := utils.WeekKey(now)

	excuse, err := w.store.Excuse(ctx, weekKey)
	if err != nil {
		return fmt.Errorf("failed to load excuse: %w", err)
	}

	members, err := w.roster.DepartmentMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	tasks, err := w.store.TaskCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load task counters: %w", err)
	}

	times, err := w.store.TimeCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load time counters: %w", err)
	}

	strikes, err := w.store.ActiveStrikeCounts(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load strike counts: %w", err)
	}

	result := classify(members, tasks, times, w.reqs)

	report := w.renderReport(weekKey, excuse, result, tasks, times, strikes)
	if err := w.reporter.Announce("Weekly Task Summary", report, 0xF1C40F, ""); err != nil {
		w.logger.Error("Failed to deliver weekly report", zap.Error(err))
	}

	if excuse == nil {
		w.strikePass(ctx, append(result.NotMet, result.Zero...))
	} else {
		w.logger.Info("Week excused, skipping strike pass",
			zap.String("weekKey", weekKey),
			zap.String("reason", excuse.Reason))
	}

	// Hard reset regardless of excuse; the week is over either way.
	if err := w.store.ResetWeek(ctx); err != nil {
		return fmt.Errorf("failed to reset weekly counters: %w", err)
	}

	w.logger.Info("Weekly evaluation completed",
		zap.String("weekKey", weekKey),
		zap.Bool("excused", excuse != nil),
		zap.Int("met", len(result.Met)),
		zap.Int("notMet", len(result.NotMet)),
		zap.Int("zero", len(result.Zero)))

	return nil
}

// strikePass issues a quota strike per member, enforcing at the threshold.
// One member's failure never aborts the rest of the roster.
func (w *Worker) strikePass(ctx context.Context, members []Member) {
	for _, member := range members {
		strike, active, err := w.striker.IssueStrike(ctx, member.ID, "Missed weekly quota", nil, true)
		if err != nil {
			w.logger.Error("Failed to issue quota strike",
				zap.Uint64("memberID", member.ID),
				zap.Error(err))

			continue
		}

		w.reporter.DM(snowflake.ID(member.ID), fmt.Sprintf(
			"You've received a strike for failing to complete your weekly quota. "+
				"This will expire on **%s**. (**%d/%d strikes**)",
			strike.ExpiresAt.Format("2006-01-02"), active, types.StrikeThreshold))
		w.reporter.LogAction("Strike Issued", fmt.Sprintf(
			"Member: <@%d>\nReason: Missed weekly quota\nAuto: true\nActive now: **%d/%d**",
			member.ID, active, types.StrikeThreshold))

		if active >= types.StrikeThreshold {
			w.enforcer.ThreeStrikes(ctx, member.ID)
		}
	}
}

// Classification buckets every roster member touched by a counter, with the
// untouched remainder in Zero. The buckets are disjoint and name-sorted.
type Classification struct {
	Met    []Member
	NotMet []Member
	Zero   []Member
}

// classify assigns every roster member to exactly one bucket.
func classify(members []Member, tasks, times map[uint64]int, reqs *config.Requirements) Classification {
	var result Classification

	for _, member := range members {
		taskCount, hasTasks := tasks[member.ID]
		seconds, hasTime := times[member.ID]

		switch {
		case !hasTasks && !hasTime:
			result.Zero = append(result.Zero, member)
		case taskCount >= reqs.WeeklyTasks && seconds/60 >= reqs.WeeklyMinutes:
			result.Met = append(result.Met, member)
		default:
			result.NotMet = append(result.NotMet, member)
		}
	}

	for _, bucket := range [][]Member{result.Met, result.NotMet, result.Zero} {
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Name != bucket[j].Name {
				return bucket[i].Name < bucket[j].Name
			}

			return bucket[i].ID < bucket[j].ID
		})
	}

	return result
}

// renderReport builds the report text; chunking to platform limits happens
// at delivery time.
func (w *Worker) renderReport(
	weekKey string, excuse *types.ActivityExcuse, result Classification,
	tasks, times, strikes map[uint64]int,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Weekly Task Report (**%s**)", weekKey)

	if excuse != nil {
		b.WriteString(" — EXCUSED")
	}

	b.WriteString(" ---\n\n")

	if excuse != nil {
		fmt.Fprintf(&b, "**Excuse Reason:** %s\n\n", excuse.Reason)
	}

	fmt.Fprintf(&b, "**✅ Met Requirement (%d):**\n%s\n\n",
		len(result.Met), formatBucket(result.Met, strikes))
	fmt.Fprintf(&b, "**❌ Below Quota (%d):**\n%s\n\n",
		len(result.NotMet), w.formatBelowQuota(result.NotMet, tasks, times, strikes))
	fmt.Fprintf(&b, "**🚫 0 Activity (%d):**\n%s\n\n",
		len(result.Zero), formatBucket(result.Zero, strikes))
	b.WriteString("Weekly counts will now be reset.")

	return b.String()
}

// formatBelowQuota lists one member per line with their progress against
// each requirement.
func (w *Worker) formatBelowQuota(members []Member, tasks, times, strikes map[uint64]int) string {
	if len(members) == 0 {
		return "—"
	}

	lines := make([]string, len(members))
	for i, member := range members {
		lines[i] = fmt.Sprintf("<@%d> — %d/%d tasks, %d/%d mins (strikes: %d)",
			member.ID,
			tasks[member.ID], w.reqs.WeeklyTasks,
			times[member.ID]/60, w.reqs.WeeklyMinutes,
			strikes[member.ID])
	}

	return strings.Join(lines, "\n")
}

func formatBucket(members []Member, strikes map[uint64]int) string {
	if len(members) == 0 {
		return "—"
	}

	parts := make([]string, len(members))
	for i, member := range members {
		parts[i] = fmt.Sprintf("<@%d> (strikes: %d)", member.ID, strikes[member.ID])
	}

	return strings.Join(parts, ", ")
}
