package scoreboard

import (
	"time"

	"github.com/streamlot/giveabot/internal/common/clock"
	"github.com/streamlot/giveabot/internal/models"
	scoreboardRepo "github.com/streamlot/giveabot/internal/repositories/scoreboard"
	"github.com/streamlot/giveabot/internal/twitch"
	"go.uber.org/zap"
)

// Config holds configuration for the scoreboard service
type Config struct {
	// Repo persists the scoreboard
	Repo scoreboardRepo.Repository

	// Resolver maps names to user IDs and subscription tiers
	Resolver twitch.Resolver

	// Clock stamps record mutations
	Clock clock.Clock

	// Logger for warnings
	Logger *zap.Logger

	// LuckBump is how much luck one entry is worth
	LuckBump int

	// Tier1Bonus, Tier2Bonus and Tier3Bonus are the additive draw weights
	// for each subscription tier; no subscription is always 0
	Tier1Bonus int
	Tier2Bonus int
	Tier3Bonus int

	// ResolveTimeout bounds identity and tier lookups during Add
	ResolveTimeout time.Duration
}

// GetInput contains parameters for retrieving a record
type GetInput struct {
	Name string
}

// GetOutput contains the retrieved record
type GetOutput struct {
	Record *models.UserRecord
}

// AddInput contains parameters for recording a round entry
type AddInput struct {
	Name string
}

// AddOutput contains the record after the entry was applied
type AddOutput struct {
	Record *models.UserRecord
}

// BumpInput contains parameters for a manual luck bump
type BumpInput struct {
	Name string

	// Multiplier scales the configured bump; the bumped luck is
	// Multiplier x LuckBump
	Multiplier int
}

// BumpOutput contains the result of a manual luck bump
type BumpOutput struct {
	// Applied is false when the user was unknown and the bump was dropped
	Applied bool

	// NewLuck is the user's luck after the bump
	NewLuck int
}

// ResetInput contains parameters for resetting a winner
type ResetInput struct {
	Name string
}

// PunishInput contains parameters for a luck punishment
type PunishInput struct {
	Name string

	// Percent of luck to strip, integer-truncated toward zero
	Percent int
}

// PunishOutput contains the result of a punishment
type PunishOutput struct {
	// Applied is false when the user was unknown
	Applied bool

	// NewLuck is the user's luck after the punishment
	NewLuck int
}

// RecordsOutput contains a snapshot of every record
type RecordsOutput struct {
	// Records are sorted by luck descending, then name
	Records []*models.UserRecord
}
