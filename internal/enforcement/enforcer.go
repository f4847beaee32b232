package enforcement

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/internal/setup/config"
	"go.uber.org/zap"
)

// notifier is the slice of the Discord notifier the enforcer needs.
type notifier interface {
	DM(userID snowflake.ID, content string) bool
	LogAction(title, description string)
}

// remover is the slice of the group gateway the enforcer needs.
type remover interface {
	RemoveMember(ctx context.Context, robloxID uint64) roblox.Outcome
}

// linkStore resolves a member's linked Roblox account.
type linkStore interface {
	RobloxID(ctx context.Context, memberID uint64) (uint64, error)
}

// guildKicker removes a member from the guild.
type guildKicker interface {
	Kick(memberID uint64, reason string) error
}

// Result records the outcome of each independent enforcement step.
type Result struct {
	Notified     bool
	GroupOutcome roblox.Outcome
	GroupLinked  bool
	Kicked       bool
}

// Enforcer carries out removals triggered by the strike ledger and the
// orientation deadline. The three steps are independent; one failing never
// stops the others, and each outcome is logged distinctly.
type Enforcer struct {
	notifier notifier
	gateway  remover
	links    linkStore
	kicker   guildKicker
	cfg      *config.Discord
	logger   *zap.Logger
}

// NewEnforcer creates an enforcer.
func NewEnforcer(
	notifier notifier,
	gateway remover,
	links linkStore,
	kicker guildKicker,
	cfg *config.Discord,
	logger *zap.Logger,
) *Enforcer {
	return &Enforcer{
		notifier: notifier,
		gateway:  gateway,
		links:    links,
		kicker:   kicker,
		cfg:      cfg,
		logger:   logger.Named("enforcer"),
	}
}

// ThreeStrikes removes a member who reached three active strikes. Does not
// touch the ledger; re-running on an already-removed member degrades to
// logged failures without corrupting state.
func (e *Enforcer) ThreeStrikes(ctx context.Context, memberID uint64) Result {
	return e.enforce(ctx, memberID,
		"You've been automatically removed from the Scientific Department for reaching **3/3 strikes**.",
		"Reached 3/3 strikes. Automatic removal.",
		"Three-Strike Removal")
}

// OrientationExpired removes a member whose orientation window lapsed.
func (e *Enforcer) OrientationExpired(ctx context.Context, memberID uint64) Result {
	return e.enforce(ctx, memberID,
		"Your 14-day orientation window has expired, so you've been removed from the Scientific Department. "+
			"You're welcome to reapply once you're ready.",
		"Orientation window expired. Automatic removal.",
		"Orientation Expiry Removal")
}

func (e *Enforcer) enforce(ctx context.Context, memberID uint64, dmText, kickReason, logTitle string) Result {
	var result Result

	// Best-effort direct notice first, while the member can still be messaged.
	result.Notified = e.notifier.DM(snowflake.ID(memberID), dmText)

	// External group removal.
	robloxID, err := e.links.RobloxID(ctx, memberID)
	switch {
	case err != nil:
		e.logger.Error("Failed to resolve roblox link",
			zap.Uint64("memberID", memberID),
			zap.Error(err))

		result.GroupOutcome = roblox.OutcomeFailed
	case robloxID == 0:
		result.GroupOutcome = roblox.OutcomeNotConfigured
	default:
		result.GroupLinked = true
		result.GroupOutcome = e.gateway.RemoveMember(ctx, robloxID)
	}

	// Guild removal last.
	if err := e.kicker.Kick(memberID, kickReason); err != nil {
		e.logger.Warn("Kick failed",
			zap.Uint64("memberID", memberID),
			zap.Error(err))
	} else {
		result.Kicked = true
	}

	e.notifier.LogAction(logTitle, fmt.Sprintf(
		"Member: <@%d>\nDirect notice: %s\nGroup removal: %s\nServer kick: %s",
		memberID,
		yesNo(result.Notified),
		groupStatus(result),
		yesNo(result.Kicked)))

	e.logger.Info("Enforcement completed",
		zap.Uint64("memberID", memberID),
		zap.String("title", logTitle),
		zap.Bool("notified", result.Notified),
		zap.String("groupOutcome", result.GroupOutcome.String()),
		zap.Bool("kicked", result.Kicked))

	return result
}

func yesNo(ok bool) string {
	if ok {
		return "✅"
	}

	return "❌"
}

func groupStatus(result Result) string {
	if !result.GroupLinked {
		return "N/A (no linked account)"
	}

	if result.GroupOutcome == roblox.OutcomeSuccess {
		return "✅"
	}

	return "❌ (" + result.GroupOutcome.String() + ")"
}
