package models

import (
	"time"
)

// DrawResult captures the outcome of a single weighted draw
type DrawResult struct {
	// RoundID identifies the round the draw belongs to
	RoundID string

	// Winner is the canonical name of the drawn entrant
	Winner string

	// WinningRoll is the winner's total weight: random roll + luck + tier bonus
	WinningRoll int

	// RoundsSinceWin is the winner's streak at draw time, recorded before
	// confirmation resets it
	RoundsSinceWin int

	// Entrants is how many names were in the draw
	Entrants int

	// DrawnAt is when the draw happened
	DrawnAt time.Time
}
