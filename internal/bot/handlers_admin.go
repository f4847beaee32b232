package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/types"
	msg "github.com/scidept/sentinel/internal/discord"
	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/pkg/utils"
	"go.uber.org/zap"
)

const announceModalPrefix = "announce:"

// announceColorNames drives the /announce color choices, in display order.
var announceColorNames = []struct {
	label string
	value string
}{
	{"Blue", "blue"},
	{"Green", "green"},
	{"Red", "red"},
	{"Yellow", "yellow"},
	{"Purple", "purple"},
	{"Orange", "orange"},
	{"Gold", "gold"},
}

var announceColors = map[string]int{
	"blue":   0x3498DB,
	"green":  0x2ECC71,
	"red":    0xE74C3C,
	"yellow": 0xFEE75C,
	"purple": 0x9B59B6,
	"orange": 0xE67E22,
	"gold":   0xF1C40F,
}

func isAnnounceModalID(customID string) bool {
	return strings.HasPrefix(customID, announceModalPrefix)
}

// handleWelcome posts the department welcome embed into the current channel.
func (b *Bot) handleWelcome(event *events.ApplicationCommandInteractionCreate) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	body := "Hello, and welcome to the **Scientific Department**!\n\n" +
		":one: Start by reviewing our department resources (Trello/docs) so you understand expectations " +
		"for **testing, cross-testing, and interviews**.\n" +
		">  :information_source: Even if you plan to specialize later, knowing the basics of each area " +
		"will help your on-site performance.\n\n" +
		":two: Your first priority is completing your **Scientific Trainee Orientation**. " +
		":calendar_spiral: Sessions take ~20 minutes and **must be completed** within your first **2 weeks**. " +
		"You can book with any member of management.\n\n" +
		":three: To ensure your on-site activity is tracked for quotas and leaderboards, please run " +
		"**/verify** with your ROBLOX username.\n\n" +
		"That's it for now. If you have any questions, reach out to management or fellow researchers. " +
		"We're excited to see your contributions :test_tube:"

	channelID := event.Channel().ID()

	_, err := b.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Welcome to the Scientific Department!").
			SetDescription(body).
			SetColor(msg.ColorSuccess).
			SetFooter("Best,\nScientific Department Management Team", "").
			Build()).
		Build())
	if err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Welcome Sent",
		fmt.Sprintf("By: <@%d> • Channel: <#%d>", requesterID, channelID))

	return reply(event, "Welcome message sent!")
}

// handleActivityExcuse sets or clears a week's strike waiver.
func (b *Bot) handleActivityExcuse(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	sub := ""
	if data.SubCommandName != nil {
		sub = *data.SubCommandName
	}

	week := utils.WeekKey(time.Now().UTC())
	if v, ok := data.OptString("week"); ok && v != "" {
		week = strings.ToUpper(v)
	}

	requesterID, _ := invoker(event)

	switch sub {
	case "set":
		reason := data.String("reason")

		err := b.db.Model().Excuse().Upsert(ctx, &types.ActivityExcuse{
			WeekKey: week,
			Reason:  reason,
			SetBy:   requesterID,
			SetAt:   time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		b.notifier.LogAction("Activity Excuse Set",
			fmt.Sprintf("Week: **%s**\nBy: <@%d>\nReason: %s", week, requesterID, reason))

		return reply(event, fmt.Sprintf("Activity excuse **set** for week **%s**.", week))
	case "clear":
		if err := b.db.Model().Excuse().Clear(ctx, week); err != nil {
			return err
		}

		b.notifier.LogAction("Activity Excuse Cleared",
			fmt.Sprintf("Week: **%s**\nBy: <@%d>", week, requesterID))

		return reply(event, fmt.Sprintf("Activity excuse **cleared** for week **%s**.", week))
	default:
		return reply(event, "This command is not available.")
	}
}

// handleVerify links the invoker's Roblox account by username.
func (b *Bot) handleVerify(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	username := data.String("roblox_username")
	requesterID, _ := invoker(event)

	robloxID, robloxName, err := b.lookup.UserIDByUsername(ctx, username)
	if err != nil {
		b.logger.Error("Roblox username lookup failed",
			zap.String("username", username),
			zap.Error(err))

		return reply(event, "There was an error looking up the Roblox user.")
	}

	if robloxID == 0 {
		return reply(event, "Could not find that Roblox user.")
	}

	if err := b.db.Model().Link().UpsertLink(ctx, requesterID, robloxID); err != nil {
		return err
	}

	b.notifier.LogAction("Verification Linked",
		fmt.Sprintf("User: <@%d>\nRoblox: **%s** (`%d`)", requesterID, robloxName, robloxID))

	return reply(event, fmt.Sprintf("Successfully verified as %s!", robloxName))
}

// handleAnnounce opens the announcement form. The chosen color rides in the
// modal's custom ID.
func (b *Bot) handleAnnounce(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.AnnouncementRoleID); !ok {
		return err
	}

	color := "blue"
	if v, ok := data.OptString("color"); ok {
		if _, known := announceColors[v]; known {
			color = v
		}
	}

	modal := discord.NewModalCreateBuilder().
		SetCustomID(announceModalPrefix + color).
		SetTitle("Send Announcement").
		AddActionRow(
			discord.NewTextInput("title", discord.TextInputStyleShort, "Title").
				WithRequired(true).
				WithMaxLength(200).
				WithPlaceholder("Announcement title"),
		).
		AddActionRow(
			discord.NewTextInput("message", discord.TextInputStyleParagraph, "Message").
				WithRequired(true).
				WithMaxLength(4000).
				WithPlaceholder("Write your announcement here..."),
		).
		Build()

	return event.Modal(modal)
}

// handleAnnounceModal delivers the submitted announcement.
func (b *Bot) handleAnnounceModal(event *events.ModalSubmitInteractionCreate) error {
	color := announceColors["blue"]
	if v, ok := announceColors[strings.TrimPrefix(event.Data.CustomID, announceModalPrefix)]; ok {
		color = v
	}

	title := event.Data.Text("title")
	message := event.Data.Text("message")

	user := event.User()

	name := user.EffectiveName()
	if member := event.Member(); member != nil {
		name = member.EffectiveName()
	}

	if err := b.notifier.Announce("📢 "+title, message, color, "Announcement by "+name); err != nil {
		return err
	}

	b.notifier.LogAction("Announcement Sent",
		fmt.Sprintf("User: <@%d>\nTitle: **%s**", uint64(user.ID), title))

	return reply(event, "Announcement sent successfully!")
}

// handleRank sets a member's group rank and mirrors it onto a matching guild
// role when one exists.
func (b *Bot) handleRank(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.RankManagerRoleID); !ok {
		return err
	}

	memberID, memberName := memberOption(data, "member")
	roleName := data.String("group_role")
	requesterID, requesterName := invoker(event)

	robloxID, err := b.db.Model().Link().RobloxID(ctx, memberID)
	if err != nil {
		return err
	}

	if robloxID == 0 {
		return reply(event, fmt.Sprintf(
			"%s hasn't linked a Roblox account with `/verify` yet.", memberName))
	}

	ranks := b.gateway.ListGroupRanks(ctx)
	if len(ranks) == 0 {
		return reply(event, "Couldn't fetch Roblox group ranks. Check the group service configuration.")
	}

	var target *roblox.GroupRank

	for i, rank := range ranks {
		if strings.EqualFold(rank.Name, roleName) {
			target = &ranks[i]
			break
		}
	}

	if target == nil {
		return reply(event, "That rank wasn't found. Try typing to see suggestions.")
	}

	guildID := snowflake.ID(b.cfg.Discord.GuildID)

	guildRoles, err := b.client.Rest().GetRoles(guildID)
	if err != nil {
		b.logger.Warn("Failed to list guild roles", zap.Error(err))
	}

	// Drop the guild role matching the previously stored rank, best-effort.
	if prevRank, err := b.db.Model().Link().Rank(ctx, memberID); err == nil && prevRank != "" {
		if role := roleByName(guildRoles, prevRank); role != nil {
			if err := b.client.Rest().RemoveMemberRole(guildID, snowflake.ID(memberID), role.ID,
				rest.WithReason(fmt.Sprintf("Replacing rank via /rank by %s", requesterName))); err != nil {
				b.logger.Warn("Failed to remove previous rank role",
					zap.Uint64("memberID", memberID),
					zap.String("role", prevRank),
					zap.Error(err))
			}
		}
	}

	if outcome := b.gateway.SetGroupRank(ctx, robloxID, target.ID); outcome != roblox.OutcomeSuccess {
		return reply(event, "Failed to set Roblox rank (service error).")
	}

	err = b.db.Model().Link().UpsertRank(ctx, &types.MemberRank{
		MemberID: memberID,
		Rank:     target.Name,
		SetBy:    requesterID,
		SetAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	response := fmt.Sprintf("Set **Roblox rank** for <@%d> to **%s**.", memberID, target.Name)

	if role := roleByName(guildRoles, target.Name); role != nil {
		if err := b.client.Rest().AddMemberRole(guildID, snowflake.ID(memberID), role.ID,
			rest.WithReason(fmt.Sprintf("Rank set via /rank by %s", requesterName))); err != nil {
			b.logger.Warn("Failed to assign rank role",
				zap.Uint64("memberID", memberID),
				zap.String("role", target.Name),
				zap.Error(err))
		} else {
			response += fmt.Sprintf(" Also assigned Discord role **%s**.", role.Name)
		}
	}

	b.notifier.LogAction("Rank Set",
		fmt.Sprintf("By: <@%d>\nMember: <@%d>\nNew Rank: **%s**", requesterID, memberID, target.Name))

	return reply(event, response)
}

// handleAutocompleteInteraction serves the /rank group role suggestions.
func (b *Bot) handleAutocompleteInteraction(event *events.AutocompleteInteractionCreate) {
	go func() {
		if event.Data.CommandName != "rank" {
			return
		}

		current := strings.ToLower(event.Data.String("group_role"))
		ranks := b.gateway.ListGroupRanks(context.Background())

		choices := make([]discord.AutocompleteChoice, 0, maxAutocompleteChoices)

		for _, rank := range ranks {
			if current != "" && !strings.HasPrefix(strings.ToLower(rank.Name), current) {
				continue
			}

			choices = append(choices, discord.AutocompleteChoiceString{Name: rank.Name, Value: rank.Name})
			if len(choices) >= maxAutocompleteChoices {
				break
			}
		}

		if err := event.AutocompleteResult(choices); err != nil {
			b.logger.Debug("Failed to send autocomplete result", zap.Error(err))
		}
	}()
}

// maxAutocompleteChoices is the platform cap on autocomplete suggestions.
const maxAutocompleteChoices = 25

func roleByName(roles []discord.Role, name string) *discord.Role {
	for i, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return &roles[i]
		}
	}

	return nil
}
