package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/streamlot/giveabot/internal/common/clock"
	"github.com/streamlot/giveabot/internal/common/uuid"
	twitchHandler "github.com/streamlot/giveabot/internal/handlers/twitch"
	ignoreListRepo "github.com/streamlot/giveabot/internal/repositories/ignorelist"
	scoreboardRepo "github.com/streamlot/giveabot/internal/repositories/scoreboard"
	"github.com/streamlot/giveabot/internal/roller"
	giveawayService "github.com/streamlot/giveabot/internal/services/giveaway"
	scoreboardService "github.com/streamlot/giveabot/internal/services/scoreboard"
	"github.com/streamlot/giveabot/internal/twitch"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	boardRepo, err := scoreboardRepo.NewFlatFile(&scoreboardRepo.Config{
		Path:   getEnv("SCOREBOARD_FILE", "scoreboard.txt"),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to create scoreboard repository", zap.Error(err))
	}

	ignoreList, err := ignoreListRepo.NewFlatFile(&ignoreListRepo.Config{
		Path:   getEnv("IGNORELIST_FILE", "ignorelist.txt"),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to create ignore list repository", zap.Error(err))
	}

	if err := ignoreList.Load(context.Background()); err != nil {
		logger.Fatal("Failed to load ignore list", zap.Error(err))
	}

	// Initialize the Helix resolver
	resolver, err := twitch.NewHelix(&twitch.Config{
		ClientID:      mustGetEnv(logger, "TWITCH_CLIENT_ID"),
		AccessToken:   mustGetEnv(logger, "TWITCH_ACCESS_TOKEN"),
		BroadcasterID: mustGetEnv(logger, "TWITCH_BROADCASTER_ID"),
		Timeout:       getEnvDuration("HELIX_TIMEOUT", 5*time.Second),
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("Failed to create resolver", zap.Error(err))
	}

	// Initialize the scoreboard service
	boardSvc, err := scoreboardService.New(&scoreboardService.Config{
		Repo:           boardRepo,
		Resolver:       resolver,
		Clock:          &clock.DefaultClock{},
		Logger:         logger,
		LuckBump:       getEnvInt("LUCK_BUMP", 10),
		Tier1Bonus:     getEnvInt("TIER1_BONUS", 300),
		Tier2Bonus:     getEnvInt("TIER2_BONUS", 600),
		Tier3Bonus:     getEnvInt("TIER3_BONUS", 900),
		ResolveTimeout: getEnvDuration("HELIX_TIMEOUT", 5*time.Second),
	})
	if err != nil {
		logger.Fatal("Failed to create scoreboard service", zap.Error(err))
	}

	if err := boardSvc.Load(context.Background()); err != nil {
		logger.Fatal("Failed to load scoreboard", zap.Error(err))
	}

	// Initialize the giveaway service
	giveawaySvc, err := giveawayService.New(&giveawayService.Config{
		Scoreboard:        boardSvc,
		IgnoreList:        ignoreList,
		Roller:            roller.New(&roller.Config{}),
		Clock:             &clock.DefaultClock{},
		UUIDGenerator:     uuid.New(),
		Logger:            logger,
		RollMax:           getEnvInt("ROLL_MAX", 1000),
		PunishmentPercent: getEnvInt("PUNISHMENT_PERCENT", 25),
	})
	if err != nil {
		logger.Fatal("Failed to create giveaway service", zap.Error(err))
	}

	// Initialize the chat bot
	bot, err := twitchHandler.New(&twitchHandler.Config{
		Nick:              mustGetEnv(logger, "BOT_NICK"),
		Token:             mustGetEnv(logger, "TMI_TOKEN"),
		Channel:           mustGetEnv(logger, "CHANNEL"),
		Admin:             mustGetEnv(logger, "ADMIN"),
		Prefix:            getEnv("BOT_PREFIX", "!"),
		ReminderInterval:  getEnvDuration("REMINDER_INTERVAL", 5*time.Minute),
		GiveawayService:   giveawaySvc,
		ScoreboardService: boardSvc,
		IgnoreList:        ignoreList,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	go func() {
		if err := bot.Start(); err != nil {
			logger.Fatal("Bot stopped", zap.Error(err))
		}
	}()

	logger.Info("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("Shutting down...")

	if err := bot.Stop(); err != nil {
		logger.Error("Failed to stop bot", zap.Error(err))
	}

	// One last save so manual bumps are never lost on shutdown
	if err := boardSvc.Save(context.Background()); err != nil {
		logger.Error("Failed to save scoreboard", zap.Error(err))
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// mustGetEnv retrieves a required environment variable
func mustGetEnv(logger *zap.Logger, key string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Fatal("Missing required environment variable", zap.String("key", key))
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration retrieves a duration environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
