package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"starsbot/bot"
	"starsbot/config"
	"starsbot/database"
	"starsbot/events"
	"starsbot/games"
	"starsbot/repository"
	"starsbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting stars bot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	log.Info("Initializing services...")
	engine := games.NewEngine(cfg.Games, games.NewRand())
	userService := service.NewUserService(uowFactory)
	gameService := service.NewGameService(uowFactory, engine)
	sponsorService := service.NewSponsorService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory)
	statsService := service.NewStatsService(uowFactory)

	log.Info("Initializing Telegram bot...")
	tgBot, err := bot.New(cfg, userService, gameService, sponsorService, withdrawalService, statsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	tgBot.Run(ctx)

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
