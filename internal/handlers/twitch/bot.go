package twitch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	irc "github.com/gempir/go-twitch-irc/v4"
	ignoreListRepo "github.com/streamlot/giveabot/internal/repositories/ignorelist"
	"github.com/streamlot/giveabot/internal/services/giveaway"
	scoreboardService "github.com/streamlot/giveabot/internal/services/scoreboard"
	"go.uber.org/zap"
)

const defaultReminderInterval = 5 * time.Minute

// Bot wires chat commands to the giveaway engine
type Bot struct {
	client     *irc.Client
	config     *Config
	commands   map[string]commandFunc
	giveaway   giveaway.Service
	scoreboard scoreboardService.Service
	ignoreList ignoreListRepo.Repository
	logger     *zap.Logger
	done       chan struct{}
}

// Config holds the configuration for the bot
type Config struct {
	// Nick is the bot's Twitch login
	Nick string

	// Token is the IRC OAuth token, with or without the oauth: prefix
	Token string

	// Channel to join
	Channel string

	// Admin is the only chatter allowed to run round commands
	Admin string

	// Prefix for chat commands, defaults to "!"
	Prefix string

	// ReminderInterval paces the entry reminder while a round is open
	ReminderInterval time.Duration

	// GiveawayService runs the rounds
	GiveawayService giveaway.Service

	// ScoreboardService reports standings
	ScoreboardService scoreboardService.Service

	// IgnoreList for the ignore and unignore commands
	IgnoreList ignoreListRepo.Repository

	// Logger for command handling
	Logger *zap.Logger
}

// New creates a new Twitch chat bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Nick == "" {
		return nil, errors.New("nick cannot be empty")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Channel == "" {
		return nil, errors.New("channel cannot be empty")
	}

	if cfg.Admin == "" {
		return nil, errors.New("admin cannot be empty")
	}

	if cfg.GiveawayService == nil {
		return nil, errors.New("giveaway service cannot be nil")
	}

	if cfg.ScoreboardService == nil {
		return nil, errors.New("scoreboard service cannot be nil")
	}

	if cfg.IgnoreList == nil {
		return nil, errors.New("ignore list cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.Prefix == "" {
		cfg.Prefix = "!"
	}

	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = defaultReminderInterval
	}

	token := cfg.Token
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}

	bot := &Bot{
		client:     irc.NewClient(cfg.Nick, token),
		config:     cfg,
		giveaway:   cfg.GiveawayService,
		scoreboard: cfg.ScoreboardService,
		ignoreList: cfg.IgnoreList,
		logger:     cfg.Logger,
		done:       make(chan struct{}),
	}
	bot.commands = bot.commandTable()

	bot.client.OnPrivateMessage(bot.handleMessage)

	return bot, nil
}

// Start joins the channel and blocks serving chat until Stop is called
func (b *Bot) Start() error {
	b.client.Join(b.config.Channel)

	go b.reminderLoop()

	b.logger.Info("bot connecting",
		zap.String("nick", b.config.Nick),
		zap.String("channel", b.config.Channel))

	if err := b.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to Twitch IRC: %w", err)
	}

	return nil
}

// Stop disconnects from chat and stops the reminder loop
func (b *Bot) Stop() error {
	close(b.done)
	return b.client.Disconnect()
}

// handleMessage dispatches one chat line to its command handler
func (b *Bot) handleMessage(message irc.PrivateMessage) {
	text := strings.TrimSpace(message.Message)
	if !strings.HasPrefix(text, b.config.Prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(text, b.config.Prefix))
	if len(fields) == 0 {
		return
	}

	name := strings.ToLower(fields[0])
	handler, ok := b.commands[name]
	if !ok {
		return
	}

	ctx := context.Background()
	handler(ctx, &message, fields[1:])
}

// isAdmin reports whether the message author may run round commands
func (b *Bot) isAdmin(message *irc.PrivateMessage) bool {
	return strings.EqualFold(message.User.Name, b.config.Admin)
}

// say sends a chat line to the configured channel
func (b *Bot) say(text string) {
	b.client.Say(b.config.Channel, text)
}

// reminderLoop re-announces the entry keyword while a round is open. It
// only reads a snapshot of the round state.
func (b *Bot) reminderLoop() {
	ticker := time.NewTicker(b.config.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			if b.giveaway.IsOpen(context.Background()) {
				b.say(fmt.Sprintf("== Giveaway is open == Type %sgiveaway to participate", b.config.Prefix))
			}
		}
	}
}
