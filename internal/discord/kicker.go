package discord

import (
	"fmt"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// GuildKicker removes members from the configured guild.
type GuildKicker struct {
	rest    rest.Rest
	guildID snowflake.ID
}

// NewGuildKicker creates a kicker for the guild.
func NewGuildKicker(restClient rest.Rest, guildID uint64) *GuildKicker {
	return &GuildKicker{
		rest:    restClient,
		guildID: snowflake.ID(guildID),
	}
}

// Kick removes a member with an audit log reason.
func (k *GuildKicker) Kick(memberID uint64, reason string) error {
	if err := k.rest.RemoveMember(k.guildID, snowflake.ID(memberID), rest.WithReason(reason)); err != nil {
		return fmt.Errorf("failed to kick member %d: %w", memberID, err)
	}

	return nil
}
