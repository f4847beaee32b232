package bot

import (
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// reply sends an ephemeral text response to an interaction.
func reply(event responder, content string) error {
	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
}

// replyEmbed sends an ephemeral embed response to an interaction.
func replyEmbed(event responder, embed discord.Embed) error {
	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		SetEphemeral(true).
		Build())
}

// requireRole checks the invoker holds the given role, replying with a denial
// when they do not. A zero role ID locks the command entirely.
func (b *Bot) requireRole(event *events.ApplicationCommandInteractionCreate, roleID uint64) (bool, error) {
	member := event.Member()
	if roleID != 0 && member != nil && slices.Contains(member.RoleIDs, snowflake.ID(roleID)) {
		return true, nil
	}

	return false, reply(event, "You don't have permission to use this command.")
}

// invoker returns the calling member's ID and display name.
func invoker(event *events.ApplicationCommandInteractionCreate) (uint64, string) {
	if member := event.Member(); member != nil {
		return uint64(member.User.ID), member.EffectiveName()
	}

	user := event.User()

	return uint64(user.ID), user.EffectiveName()
}

// memberOption resolves a required member option to an ID and display name.
func memberOption(data discord.SlashCommandInteractionData, name string) (uint64, string) {
	id := uint64(data.Snowflake(name))

	if member, ok := data.OptMember(name); ok {
		return id, member.EffectiveName()
	}

	return id, fmt.Sprintf("User %d", id)
}

// targetOrSelf resolves an optional member option, defaulting to the invoker.
// The second return reports whether a different member was targeted.
func targetOrSelf(
	event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) (uint64, string, bool) {
	selfID, selfName := invoker(event)

	if member, ok := data.OptMember("member"); ok {
		id := uint64(member.User.ID)
		return id, member.EffectiveName(), id != selfID
	}

	return selfID, selfName, false
}

// targetLabel renders the audit-log label for a viewed member.
func targetLabel(targetID uint64, other bool) string {
	if !other {
		return "self"
	}

	return fmt.Sprintf("<@%d>", targetID)
}
