package giveaway

import (
	"github.com/streamlot/giveabot/internal/common/clock"
	"github.com/streamlot/giveabot/internal/common/uuid"
	"github.com/streamlot/giveabot/internal/models"
	ignoreListRepo "github.com/streamlot/giveabot/internal/repositories/ignorelist"
	"github.com/streamlot/giveabot/internal/roller"
	scoreboardService "github.com/streamlot/giveabot/internal/services/scoreboard"
	"go.uber.org/zap"
)

// Config holds configuration for the giveaway service
type Config struct {
	// Scoreboard owns the persistent per-user records
	Scoreboard scoreboardService.Service

	// IgnoreList gates admissions
	IgnoreList ignoreListRepo.Repository

	// Roller supplies the random component of draw rolls
	Roller roller.Roller

	// Clock stamps draws
	Clock clock.Clock

	// UUIDGenerator labels rounds
	UUIDGenerator uuid.UUID

	// Logger for state warnings
	Logger *zap.Logger

	// RollMax is the upper bound of the uniform draw roll [1, RollMax].
	// It sets the variance of the draw against the additive luck and
	// tier bonuses.
	RollMax int

	// PunishmentPercent is the luck share stripped from a winner who was
	// never confirmed before the next draw
	PunishmentPercent int
}

// OpenOutput contains the result of opening a round
type OpenOutput struct {
	// RoundID labels the new round in logs and reports
	RoundID string

	// ConfirmedPrevious is set when opening auto-confirmed a winner left
	// pending from the previous round
	ConfirmedPrevious string
}

// EnterInput contains parameters for admitting a chatter
type EnterInput struct {
	Name string
}

// EnterOutput contains the entrant's record after admission
type EnterOutput struct {
	Record *models.UserRecord
}

// DrawOutput contains the draw outcome
type DrawOutput struct {
	Result *models.DrawResult

	// PunishedPrevious is set when the draw punished a winner left
	// unconfirmed from the previous draw
	PunishedPrevious string
}

// ConfirmWinnerOutput contains the result of a confirmation
type ConfirmWinnerOutput struct {
	// Confirmed is false when there was no pending winner to confirm
	Confirmed bool

	// Winner is the confirmed name when Confirmed is true
	Winner string
}

// IsParticipatingInput contains parameters for a membership test
type IsParticipatingInput struct {
	Name string
}

// IsParticipatingOutput contains the membership test result
type IsParticipatingOutput struct {
	Participating bool
}

// EntrantsOutput contains the current entrants in entry order
type EntrantsOutput struct {
	Names []string
}

// LastWinnerOutput reports the most recent draw
type LastWinnerOutput struct {
	// Winner is empty when no draw has happened this round
	Winner string

	// Roll is the winning total
	Roll int

	// RoundsSinceWin is the winner's streak at draw time
	RoundsSinceWin int

	// Pending is true while the winner has not been confirmed
	Pending bool
}

// UserStatsInput contains parameters for a stats query
type UserStatsInput struct {
	Name string
}

// UserStatsOutput reports a user's standing for the draw. The percentages
// express luck and tier bonus relative to the random roll range.
type UserStatsOutput struct {
	LuckPercent     int
	TierPercent     int
	LifetimeEntries int
	RoundsSinceWin  int
}
