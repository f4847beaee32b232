package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/types"
	msg "github.com/scidept/sentinel/internal/discord"
)

// handleStrikes dispatches the /strikes subcommands.
func (b *Bot) handleStrikes(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	sub := ""
	if data.SubCommandName != nil {
		sub = *data.SubCommandName
	}

	switch sub {
	case "add":
		return b.handleStrikesAdd(ctx, event, data)
	case "remove":
		return b.handleStrikesRemove(ctx, event, data)
	case "view":
		return b.handleStrikesView(ctx, event, data)
	default:
		return reply(event, "This command is not available.")
	}
}

func (b *Bot) handleStrikesAdd(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, _ := memberOption(data, "member")
	reason := data.String("reason")
	requesterID, _ := invoker(event)

	strike, active, err := b.db.Service().Strike().IssueStrike(ctx, memberID, reason, &requesterID, false)
	if err != nil {
		return err
	}

	b.notifier.DM(snowflake.ID(memberID), fmt.Sprintf(
		"You've received a strike for failing to complete your weekly quota. "+
			"This will expire on **%s**. (**%d/%d strikes**)",
		strike.ExpiresAt.Format("2006-01-02"), active, types.StrikeThreshold))
	b.notifier.LogAction("Strike Issued", fmt.Sprintf(
		"Member: <@%d>\nReason: %s\nAuto: false\nActive now: **%d/%d**",
		memberID, reason, active, types.StrikeThreshold))

	if active >= types.StrikeThreshold {
		b.enforcer.ThreeStrikes(ctx, memberID)
	}

	return reply(event, fmt.Sprintf("Strike added to <@%d>. Active strikes: **%d/%d**.",
		memberID, active, types.StrikeThreshold))
}

func (b *Bot) handleStrikesRemove(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, memberName := memberOption(data, "member")

	count := 1
	if v, ok := data.OptInt("count"); ok {
		count = v
	}

	removed, remaining, err := b.db.Service().Strike().RemoveStrikes(ctx, memberID, count)
	if err != nil {
		return err
	}

	if removed == 0 {
		return reply(event, fmt.Sprintf("%s has no active strikes.", memberName))
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Strikes Removed", fmt.Sprintf(
		"By: <@%d>\nMember: <@%d>\nRemoved: **%d**\nActive remaining: **%d/%d**",
		requesterID, memberID, removed, remaining, types.StrikeThreshold))

	return reply(event, fmt.Sprintf("Removed **%d** strike(s) from <@%d>. Active remaining: **%d/%d**.",
		removed, memberID, remaining, types.StrikeThreshold))
}

func (b *Bot) handleStrikesView(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	targetID, targetName, _ := targetOrSelf(event, data)

	active, err := b.db.Model().Strike().ActiveStrikes(ctx, targetID, time.Now().UTC())
	if err != nil {
		return err
	}

	total, err := b.db.Model().Strike().TotalCount(ctx, targetID)
	if err != nil {
		return err
	}

	return replyEmbed(event, discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("Strikes for %s", targetName)).
		SetDescription(formatStrikes(active, total)).
		SetColor(msg.ColorWarning).
		SetTimestamp(time.Now()).
		Build())
}
