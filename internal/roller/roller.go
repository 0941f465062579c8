package roller

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/streamlot/giveabot/internal/roller Roller

// Roller provides the random component of a draw roll
type Roller interface {
	// Roll returns a uniform random integer in [1, max]
	Roll(max int) int
}

// Config for the random roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// randRoller implements Roller with a seeded math/rand source
type randRoller struct {
	random *rand.Rand
}

// New creates a new random roller
func New(cfg *Config) *randRoller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &randRoller{
		random: rand.New(source),
	}
}

// Roll returns a uniform random integer in [1, max]
func (r *randRoller) Roll(max int) int {
	if max < 1 {
		max = 1
	}
	return r.random.Intn(max) + 1
}
