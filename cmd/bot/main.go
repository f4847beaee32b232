package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scidept/sentinel/internal/bot"
	"github.com/scidept/sentinel/internal/roblox"
	"github.com/scidept/sentinel/internal/setup"
	"github.com/scidept/sentinel/internal/webhook"
	"github.com/scidept/sentinel/internal/worker"
	"github.com/scidept/sentinel/internal/worker/orientation"
	"github.com/scidept/sentinel/internal/worker/weekly"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(ctx)

	cfg := app.Config
	logger := app.Logger

	gateway := roblox.NewGateway(&cfg.Roblox, &cfg.Retry, logger)
	lookup := roblox.NewLookup(app.RoAPI, &cfg.Roblox, logger)

	// Create bot instance
	discordBot, err := bot.New(cfg, app.DB, gateway, lookup, logger)
	if err != nil {
		logger.Error("Failed to create bot", zap.Error(err))
		return
	}

	// Start the bot and connect to Discord
	if err := discordBot.Start(); err != nil {
		logger.Error("Failed to start bot", zap.Error(err))
		return
	}
	defer discordBot.Close()

	notifier := discordBot.Notifier()

	// Background jobs share the notifier and enforcer the bot wired up.
	weeklyWorker := weekly.New(
		weekly.NewStore(app.DB.Model()),
		app.DB.Service().Strike(),
		discordBot.Enforcer(),
		discordBot.Roster(),
		notifier,
		&cfg.Requirements,
		logger,
	)
	orientationWorker := orientation.New(
		app.DB.Model().Orientation(),
		notifier,
		discordBot.Enforcer(),
		logger,
	)

	scheduler := worker.NewScheduler(logger)

	if _, err := scheduler.AddFunc(worker.WeeklySchedule, func() {
		weeklyWorker.Run(context.Background())
	}); err != nil {
		logger.Error("Failed to schedule weekly evaluation", zap.Error(err))
		return
	}

	if _, err := scheduler.AddFunc(worker.OrientationSchedule, func() {
		orientationWorker.Run(context.Background())
	}); err != nil {
		logger.Error("Failed to schedule orientation poll", zap.Error(err))
		return
	}

	scheduler.Start()
	defer scheduler.Stop()

	// Session event receiver for the Roblox place server.
	hook := webhook.NewServer(
		app.DB.Service().Activity(),
		app.DB.Model().Link(),
		notifier,
		&cfg.Webhook,
		&cfg.Requirements,
		logger,
	)

	go func() {
		if err := hook.Start(); err != nil {
			logger.Error("Webhook server failed", zap.Error(err))
		}
	}()

	logger.Info("Sentinel is running. Waiting for interrupt signal to gracefully shutdown...")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := hook.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down webhook server", zap.Error(err))
	}
}
