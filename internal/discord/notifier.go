package discord

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/scidept/sentinel/pkg/utils"
	"go.uber.org/zap"
)

// Embed colors used across notifications.
const (
	ColorInfo    = 0x3498DB
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xE67E22
	ColorError   = 0xE74C3C
	ColorNeutral = 0x607D8B
)

// Embed descriptions above this length are split into follow-up embeds.
const embedDescriptionLimit = 4000

// Notifier delivers embeds to the configured channels and direct messages to
// members. Channel delivery failures are logged; DMs are best-effort and
// never surface an error to the caller.
type Notifier struct {
	rest   rest.Rest
	cfg    *config.Discord
	logger *zap.Logger
}

// NewNotifier creates a notifier bound to the configured channels.
func NewNotifier(restClient rest.Rest, cfg *config.Discord, logger *zap.Logger) *Notifier {
	return &Notifier{
		rest:   restClient,
		cfg:    cfg,
		logger: logger.Named("notifier"),
	}
}

// SendLongEmbed sends an embed to a channel, splitting the description into
// follow-up embeds when it exceeds the single-embed limit. Splits happen at
// the nearest preceding newline, then space, then a hard cut.
func (n *Notifier) SendLongEmbed(channelID snowflake.ID, title, description string, color int, footer string) error {
	chunks := utils.SmartChunk(description, embedDescriptionLimit)

	first := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(chunks[0]).
		SetColor(color).
		SetTimestamp(time.Now())
	if footer != "" {
		first.SetFooter(footer, "")
	}

	if _, err := n.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(first.Build()).
		Build()); err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}

	for i, chunk := range chunks[1:] {
		followUp := discord.NewEmbedBuilder().
			SetDescription(chunk).
			SetColor(color).
			SetFooter(fmt.Sprintf("Part %d/%d", i+2, len(chunks)), "")

		if _, err := n.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
			SetEmbeds(followUp.Build()).
			Build()); err != nil {
			return fmt.Errorf("failed to send follow-up embed: %w", err)
		}
	}

	return nil
}

// Announce sends a long embed to the announcement channel.
func (n *Notifier) Announce(title, description string, color int, footer string) error {
	if n.cfg.AnnouncementChannelID == 0 {
		return nil
	}

	return n.SendLongEmbed(snowflake.ID(n.cfg.AnnouncementChannelID), title, description, color, footer)
}

// LogAction writes an audit embed to the command log channel.
func (n *Notifier) LogAction(title, description string) {
	if n.cfg.CommandLogChannelID == 0 {
		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(description).
		SetColor(ColorNeutral).
		SetTimestamp(time.Now()).
		Build()

	if _, err := n.rest.CreateMessage(snowflake.ID(n.cfg.CommandLogChannelID), discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build()); err != nil {
		n.logger.Warn("Failed to send audit embed", zap.String("title", title), zap.Error(err))
	}
}

// ActivityEmbed writes a session embed to the activity log channel, falling
// back to the command log channel when none is configured.
func (n *Notifier) ActivityEmbed(title, description string, color int) {
	channelID := n.cfg.ActivityLogChannelID
	if channelID == 0 {
		channelID = n.cfg.CommandLogChannelID
	}

	if channelID == 0 {
		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(description).
		SetColor(color).
		SetTimestamp(time.Now()).
		Build()

	if _, err := n.rest.CreateMessage(snowflake.ID(channelID), discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build()); err != nil {
		n.logger.Warn("Failed to send activity embed", zap.String("title", title), zap.Error(err))
	}
}

// OrientationAlert writes an embed to the orientation alert channel.
func (n *Notifier) OrientationAlert(title, description string, color int) {
	if n.cfg.OrientationAlertChannelID == 0 {
		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(description).
		SetColor(color).
		SetTimestamp(time.Now()).
		Build()

	if _, err := n.rest.CreateMessage(snowflake.ID(n.cfg.OrientationAlertChannelID), discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build()); err != nil {
		n.logger.Warn("Failed to send orientation embed", zap.String("title", title), zap.Error(err))
	}
}

// TaskLogEmbed writes a submission embed to the task log channel.
func (n *Notifier) TaskLogEmbed(embed discord.Embed) {
	if n.cfg.TaskLogChannelID == 0 {
		return
	}

	if _, err := n.rest.CreateMessage(snowflake.ID(n.cfg.TaskLogChannelID), discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build()); err != nil {
		n.logger.Warn("Failed to send task log embed", zap.Error(err))
	}
}

// DM sends a plain direct message. Returns whether the message was
// delivered; members with DMs disabled simply do not receive it.
func (n *Notifier) DM(userID snowflake.ID, content string) bool {
	channel, err := n.rest.CreateDMChannel(userID)
	if err != nil {
		n.logger.Debug("Failed to create DM channel",
			zap.Uint64("userID", uint64(userID)),
			zap.Error(err))

		return false
	}

	if _, err := n.rest.CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()); err != nil {
		n.logger.Debug("Failed to send DM",
			zap.Uint64("userID", uint64(userID)),
			zap.Error(err))

		return false
	}

	return true
}
