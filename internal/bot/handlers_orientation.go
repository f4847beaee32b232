package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/service"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/scidept/sentinel/pkg/utils"
	"go.uber.org/zap"
)

// handleGuildMemberUpdate opens an orientation window the moment a member
// gains the trainee role.
func (b *Bot) handleGuildMemberUpdate(event *events.GuildMemberUpdate) {
	traineeRole := snowflake.ID(b.cfg.Discord.TraineeRoleID)
	if traineeRole == 0 {
		return
	}

	had := slices.Contains(event.OldMember.RoleIDs, traineeRole)
	has := slices.Contains(event.Member.RoleIDs, traineeRole)

	if had || !has {
		return
	}

	memberID := uint64(event.Member.User.ID)

	record, created, err := b.db.Service().Orientation().Ensure(context.Background(), memberID)
	if err != nil {
		b.logger.Error("Failed to open orientation window",
			zap.Uint64("memberID", memberID),
			zap.Error(err))

		return
	}

	if created && record.Deadline != nil {
		b.notifier.LogAction("Orientation Assigned",
			fmt.Sprintf("Member: <@%d> • Deadline: %s", memberID, formatUTC(*record.Deadline)))
	}
}

// handleOrientationView shows a member's orientation status, lazily opening a
// window for trainees who predate the role listener.
func (b *Bot) handleOrientationView(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	targetID, targetName, other := targetOrSelf(event, data)

	record, err := b.orientationRecord(ctx, event, data, targetID)
	if err != nil {
		return err
	}

	if record == nil {
		return reply(event, fmt.Sprintf("No orientation record for %s.", targetName))
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Orientation Viewed",
		fmt.Sprintf("Requester: <@%d>\nTarget: %s", requesterID, targetLabel(targetID, other)))

	if record.Passed {
		when := "unknown time"
		if record.PassedAt != nil {
			when = formatUTC(*record.PassedAt)
		}

		return reply(event, fmt.Sprintf("**%s**: ✅ Passed orientation (at %s).", targetName, when))
	}

	if record.Deadline == nil {
		return reply(event, fmt.Sprintf("**%s**: ❌ Not passed. No deadline recorded.", targetName))
	}

	return reply(event, fmt.Sprintf(
		"**%s**: ❌ Not passed.\nDeadline: **%s** (**%s** remaining)",
		targetName, formatUTC(*record.Deadline),
		utils.HumanRemaining(record.Remaining(time.Now().UTC()))))
}

// handlePassedOrientation marks a member as passed, latching the record
// against any further automated transition.
func (b *Bot) handlePassedOrientation(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, _ := memberOption(data, "member")

	if err := b.db.Service().Orientation().Pass(ctx, memberID); err != nil {
		return err
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Orientation Passed",
		fmt.Sprintf("Member: <@%d>\nBy: <@%d>", memberID, requesterID))

	return reply(event, fmt.Sprintf("Marked <@%d> as **passed orientation**.", memberID))
}

// handleExtendOrientation pushes a member's deadline forward.
func (b *Bot) handleExtendOrientation(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, memberName := memberOption(data, "member")
	days := data.Int("days")

	reason := "—"
	if v, ok := data.OptString("reason"); ok && v != "" {
		reason = v
	}

	if _, err := b.orientationRecord(ctx, event, data, memberID); err != nil {
		return err
	}

	newDeadline, err := b.db.Service().Orientation().Extend(ctx, memberID, days)

	switch {
	case errors.Is(err, service.ErrNoOrientation):
		return reply(event, fmt.Sprintf(
			"No orientation record for %s and they are not a Scientific Trainee.", memberName))
	case errors.Is(err, service.ErrAlreadyPassed):
		return reply(event, fmt.Sprintf("%s already passed orientation.", memberName))
	case err != nil:
		return err
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Orientation Deadline Extended", fmt.Sprintf(
		"Member: <@%d>\nAdded: **%d** day(s)\nNew deadline: **%s**\nBy: <@%d>\nReason: %s",
		memberID, days, formatUTC(newDeadline), requesterID, reason))

	return reply(event, fmt.Sprintf(
		"Extended <@%d>'s orientation by **%d** day(s). New deadline: **%s**.",
		memberID, days, formatUTC(newDeadline)))
}

// orientationRecord fetches the target's record, first opening a window when
// the target currently holds the trainee role. Members without the role and
// without a record stay absent.
func (b *Bot) orientationRecord(
	ctx context.Context,
	event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
	targetID uint64,
) (*types.Orientation, error) {
	traineeRole := snowflake.ID(b.cfg.Discord.TraineeRoleID)

	roles := []snowflake.ID(nil)
	if member, ok := data.OptMember("member"); ok {
		roles = member.RoleIDs
	} else if member := event.Member(); member != nil {
		roles = member.RoleIDs
	}

	if traineeRole != 0 && slices.Contains(roles, traineeRole) {
		record, _, err := b.db.Service().Orientation().Ensure(ctx, targetID)
		return record, err
	}

	return b.db.Model().Orientation().Get(ctx, targetID)
}
