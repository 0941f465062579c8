package twitch

import (
	"context"
	"errors"
	"fmt"

	irc "github.com/gempir/go-twitch-irc/v4"
	"github.com/streamlot/giveabot/internal/services/giveaway"
	"go.uber.org/zap"
)

// commandFunc handles one parsed chat command
type commandFunc func(ctx context.Context, message *irc.PrivateMessage, args []string)

// commandTable maps command names and their aliases to handlers.
func (b *Bot) commandTable() map[string]commandFunc {
	table := map[string]commandFunc{}

	register := func(handler commandFunc, names ...string) {
		for _, name := range names {
			table[name] = handler
		}
	}

	register(b.adminOnly(b.handleOpen), "open", "o")
	register(b.adminOnly(b.handleReopen), "reopen", "reo")
	register(b.adminOnly(b.handleClose), "close", "c")
	register(b.adminOnly(b.handleWinner), "winner", "w")
	register(b.adminOnly(b.handleConfirm), "confirm")
	register(b.adminOnly(b.handleScoreboard), "scoreboard", "sb")
	register(b.adminOnly(b.handleIgnore), "ignore")
	register(b.adminOnly(b.handleUnignore), "unignore")
	register(b.handleEnter, "giveaway", "ga")
	register(b.handleLuck, "luck")

	return table
}

// adminOnly drops a command from anyone but the configured admin
func (b *Bot) adminOnly(handler commandFunc) commandFunc {
	return func(ctx context.Context, message *irc.PrivateMessage, args []string) {
		if !b.isAdmin(message) {
			b.logger.Warn("dropping admin command from non-admin",
				zap.String("user", message.User.Name))
			return
		}
		handler(ctx, message, args)
	}
}

func (b *Bot) handleOpen(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	output, err := b.giveaway.Open(ctx)
	if err != nil {
		b.logRoundError("open", err)
		return
	}

	if output.ConfirmedPrevious != "" {
		b.logger.Info("auto-confirmed previous winner on open",
			zap.String("winner", output.ConfirmedPrevious))
	}

	b.say(fmt.Sprintf("== Giveaway is opened == Type %sgiveaway to participate", b.config.Prefix))
}

func (b *Bot) handleReopen(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	if err := b.giveaway.Reopen(ctx); err != nil {
		b.logRoundError("reopen", err)
		return
	}

	b.say(fmt.Sprintf("== Giveaway is RE-opened == Hurry up! Type %sgiveaway to participate", b.config.Prefix))
}

func (b *Bot) handleClose(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	if err := b.giveaway.Close(ctx); err != nil {
		b.logRoundError("close", err)
		return
	}

	b.say("== Giveaway is closed == Pick the winner")
}

func (b *Bot) handleWinner(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	output, err := b.giveaway.Draw(ctx)
	if err != nil {
		if errors.Is(err, giveaway.ErrNoEntrants) {
			b.say("== No participants ==")
			return
		}
		b.logRoundError("draw", err)
		return
	}

	if output.PunishedPrevious != "" {
		b.logger.Info("punished unconfirmed winner before draw",
			zap.String("name", output.PunishedPrevious))
	}

	b.say(fmt.Sprintf("== The winner is @%s ==", output.Result.Winner))
}

func (b *Bot) handleConfirm(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	output, err := b.giveaway.ConfirmWinner(ctx)
	if err != nil {
		b.logger.Error("failed to confirm winner", zap.Error(err))
		return
	}

	if !output.Confirmed {
		return
	}

	b.say(fmt.Sprintf("== Winner @%s confirmed, luck reset ==", output.Winner))
}

func (b *Bot) handleEnter(ctx context.Context, message *irc.PrivateMessage, _ []string) {
	_, err := b.giveaway.Enter(ctx, &giveaway.EnterInput{Name: message.User.Name})
	if err != nil {
		// Admission problems never surface in chat, the bot stays quiet
		b.logRoundError("enter", err)
	}
}

func (b *Bot) handleScoreboard(ctx context.Context, _ *irc.PrivateMessage, _ []string) {
	output, err := b.scoreboard.Records(ctx)
	if err != nil {
		b.logger.Error("failed to read scoreboard", zap.Error(err))
		return
	}

	b.say("== Luck factor == " + formatScoreboard(output.Records))
}

func (b *Bot) handleLuck(ctx context.Context, message *irc.PrivateMessage, _ []string) {
	output, err := b.giveaway.UserStats(ctx, &giveaway.UserStatsInput{Name: message.User.Name})
	if err != nil {
		b.logger.Warn("failed to read user stats",
			zap.String("user", message.User.Name),
			zap.Error(err))
		return
	}

	b.say(formatStats(message.User.Name, output))
}

func (b *Bot) handleIgnore(ctx context.Context, _ *irc.PrivateMessage, args []string) {
	if len(args) == 0 {
		return
	}

	if err := b.ignoreList.Add(ctx, args[0]); err != nil {
		b.logger.Error("failed to update ignore list", zap.Error(err))
		return
	}

	b.say(fmt.Sprintf("== %s is now ignored ==", args[0]))
}

func (b *Bot) handleUnignore(ctx context.Context, _ *irc.PrivateMessage, args []string) {
	if len(args) == 0 {
		return
	}

	if err := b.ignoreList.Remove(ctx, args[0]); err != nil {
		b.logger.Error("failed to update ignore list", zap.Error(err))
		return
	}

	b.say(fmt.Sprintf("== %s is no longer ignored ==", args[0]))
}

// logRoundError demotes round-state violations to warnings; anything else
// is a real failure
func (b *Bot) logRoundError(op string, err error) {
	var roundErr giveaway.GiveawayError
	if errors.As(err, &roundErr) {
		b.logger.Warn("round command ignored",
			zap.String("op", op),
			zap.Error(err))
		return
	}

	b.logger.Error("round command failed",
		zap.String("op", op),
		zap.Error(err))
}
