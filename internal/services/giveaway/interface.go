package giveaway

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/streamlot/giveabot/internal/services/giveaway Service

// Service defines the interface for giveaway round operations
type Service interface {
	// Open starts a fresh round: a still-pending winner is confirmed
	// first, the scoreboard is reloaded and the entrant set cleared
	Open(ctx context.Context) (*OpenOutput, error)

	// Reopen extends a prematurely closed round without reloading the
	// scoreboard or clearing entrants
	Reopen(ctx context.Context) error

	// Close stops admissions and persists the scoreboard
	Close(ctx context.Context) error

	// Enter admits a chatter into the current round
	Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error)

	// Draw picks the weighted winner among the entrants of a closed round
	Draw(ctx context.Context) (*DrawOutput, error)

	// ConfirmWinner acknowledges the drawn winner claimed their prize,
	// resetting their luck and streak; idempotent
	ConfirmWinner(ctx context.Context) (*ConfirmWinnerOutput, error)

	// IsParticipating reports whether a name is entered this round
	IsParticipating(ctx context.Context, input *IsParticipatingInput) (*IsParticipatingOutput, error)

	// IsOpen reports whether the round is collecting entries
	IsOpen(ctx context.Context) bool

	// Entrants returns the current entrant names in entry order
	Entrants(ctx context.Context) (*EntrantsOutput, error)

	// LastWinner reports the most recent draw, if any
	LastWinner(ctx context.Context) (*LastWinnerOutput, error)

	// UserStats reports a user's luck and tier edge for the draw
	UserStats(ctx context.Context, input *UserStatsInput) (*UserStatsOutput, error)
}
