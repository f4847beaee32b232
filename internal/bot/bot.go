package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/scidept/sentinel/internal/database"
	msg "github.com/scidept/sentinel/internal/discord"
	"github.com/scidept/sentinel/internal/enforcement"
	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/internal/setup/config"
)

// Bot owns the Discord client and every slash command handler. Handlers talk
// to the database layer through the repository and services, to the group
// service through the gateway, and deliver embeds through the notifier.
type Bot struct {
	client   bot.Client
	cfg      *config.Config
	db       database.Client
	notifier *msg.Notifier
	enforcer *enforcement.Enforcer
	gateway  *roblox.Gateway
	lookup   *roblox.Lookup
	pending  *pendingStore
	logger   *zap.Logger
}

// New initializes the bot by configuring the Discord client with the gateway
// intents and event listeners, then wiring the notifier, kicker and enforcer
// on top of its REST client.
func New(
	cfg *config.Config,
	db database.Client,
	groupGateway *roblox.Gateway,
	lookup *roblox.Lookup,
	logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		cfg:     cfg,
		db:      db,
		gateway: groupGateway,
		lookup:  lookup,
		pending: newPendingStore(),
		logger:  logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentDirectMessages,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnModalSubmit:                   b.handleModalSubmit,
			OnAutocompleteInteraction:       b.handleAutocompleteInteraction,
			OnGuildMemberUpdate:             b.handleGuildMemberUpdate,
		}),
	)
	if err != nil {
		return nil, err
	}

	b.client = client
	b.notifier = msg.NewNotifier(client.Rest(), &cfg.Discord, logger)
	kicker := msg.NewGuildKicker(client.Rest(), cfg.Discord.GuildID)
	b.enforcer = enforcement.NewEnforcer(b.notifier, groupGateway, db.Model().Link(), kicker, &cfg.Discord, logger)

	return b, nil
}

// Start registers the guild commands with Discord and opens the gateway
// connection.
func (b *Bot) Start() error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGuildCommands(
		b.client.ApplicationID(),
		snowflake.ID(b.cfg.Discord.GuildID),
		commands(),
	)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(context.Background())
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.client.Close(context.Background())
}

// Notifier returns the channel/DM notifier backed by this client.
func (b *Bot) Notifier() *msg.Notifier {
	return b.notifier
}

// Enforcer returns the removal enforcer backed by this client.
func (b *Bot) Enforcer() *enforcement.Enforcer {
	return b.enforcer
}

// Roster returns a guild roster reader backed by this client.
func (b *Bot) Roster() *Roster {
	return NewRoster(b.client.Rest(), &b.cfg.Discord, b.logger)
}

// handleApplicationCommandInteraction dispatches slash commands by name. Each
// handler is responsible for its own response; failures get a generic
// ephemeral reply and an audit entry.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		data := event.SlashCommandInteractionData()
		name := data.CommandName()
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler",
					zap.String("command", name),
					zap.Any("panic", r))
				b.replyError(event, name, fmt.Errorf("panic: %v", r))
			}

			b.logger.Debug("Command handled",
				zap.String("command", name),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx := context.Background()

		var err error

		switch name {
		case "log":
			err = b.handleLog(event, data)
		case "viewtest":
			err = b.handleViewTest(ctx, event, data)
		case "mytasks":
			err = b.handleMyTasks(ctx, event)
		case "viewtasks":
			err = b.handleViewTasks(ctx, event, data)
		case "addtask":
			err = b.handleAddTask(ctx, event, data)
		case "leaderboard":
			err = b.handleLeaderboard(ctx, event)
		case "removelastlog":
			err = b.handleRemoveLastLog(ctx, event, data)
		case "welcome":
			err = b.handleWelcome(event)
		case "strikes":
			err = b.handleStrikes(ctx, event, data)
		case "orientationview":
			err = b.handleOrientationView(ctx, event, data)
		case "passedorientation":
			err = b.handlePassedOrientation(ctx, event, data)
		case "extendorientation":
			err = b.handleExtendOrientation(ctx, event, data)
		case "activityexcuse":
			err = b.handleActivityExcuse(ctx, event, data)
		case "verify":
			err = b.handleVerify(ctx, event, data)
		case "announce":
			err = b.handleAnnounce(event, data)
		case "rank":
			err = b.handleRank(ctx, event, data)
		default:
			err = reply(event, "This command is not available.")
		}

		if err != nil {
			b.logger.Error("Command failed",
				zap.String("command", name),
				zap.Error(err))
			b.replyError(event, name, err)
		}
	}()
}

// handleModalSubmit dispatches form submissions by custom ID.
func (b *Bot) handleModalSubmit(event *events.ModalSubmitInteractionCreate) {
	go func() {
		customID := event.Data.CustomID
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in modal handler",
					zap.String("customID", customID),
					zap.Any("panic", r))
			}

			b.logger.Debug("Modal handled",
				zap.String("customID", customID),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx := context.Background()

		var err error

		switch {
		case customID == taskLogModalID:
			err = b.handleLogModal(ctx, event)
		case isAnnounceModalID(customID):
			err = b.handleAnnounceModal(event)
		default:
			b.logger.Warn("Unknown modal submission", zap.String("customID", customID))
			return
		}

		if err != nil {
			b.logger.Error("Modal submission failed",
				zap.String("customID", customID),
				zap.Error(err))
			_ = reply(event, "Sorry, something went wrong running that command.")
		}
	}()
}

// replyError logs the failure to the audit channel and sends the generic
// failure notice. The create may itself fail when the handler already
// responded; that is fine, the first response stands.
func (b *Bot) replyError(event *events.ApplicationCommandInteractionCreate, command string, err error) {
	b.notifier.LogAction("Slash Command Error",
		fmt.Sprintf("Command: **/%s**\nError: `%v`", command, err))
	_ = reply(event, "Sorry, something went wrong running that command.")
}

// responder is the shared surface of command and modal interaction events.
type responder interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}
