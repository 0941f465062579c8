package models

import (
	"time"
)

// UserRecord represents the persistent giveaway history for a single chatter
type UserRecord struct {
	// Name is the canonical lowercase chat name, the only lookup key
	Name string

	// UserID is the opaque Twitch user ID, resolved lazily and cached;
	// empty until the first successful resolution
	UserID string

	// Luck is the accumulated entry score; it grows by the configured bump
	// on every entry and drops to zero on a confirmed win
	Luck int

	// TierBonus is the additive weight derived from the current
	// subscription tier, refreshed on every entry
	TierBonus int

	// LifetimeEntries counts every round this user has ever entered
	LifetimeEntries int

	// RoundsSinceWin counts rounds entered since the last confirmed win
	RoundsSinceWin int

	// UpdatedAt is when the record was last mutated
	UpdatedAt time.Time
}

// Clone returns a copy of the record so callers can stage mutations
// without touching the scoreboard's owned copy
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
