package giveaway

// GiveawayError is a custom error type for round-related errors
type GiveawayError string

// Error implements the error interface
func (e GiveawayError) Error() string {
	return string(e)
}

// Define errors. Round-state violations are demoted to log lines by the
// chat handler; they never surface in chat.
const (
	ErrRoundAlreadyOpen GiveawayError = "round is already open"
	ErrRoundNotOpen     GiveawayError = "round is not open"
	ErrRoundStillOpen   GiveawayError = "round must be closed before drawing"
	ErrAlreadyEntered   GiveawayError = "user already entered this round"
	ErrIgnoredUser      GiveawayError = "user is on the ignore list"
	ErrNoEntrants       GiveawayError = "round has no entrants"
	ErrNilConfig        GiveawayError = "config cannot be nil"
	ErrNilScoreboard    GiveawayError = "scoreboard service cannot be nil"
	ErrNilIgnoreList    GiveawayError = "ignore list cannot be nil"
	ErrNilRoller        GiveawayError = "roller cannot be nil"
	ErrNilClock         GiveawayError = "clock cannot be nil"
	ErrNilUUIDGenerator GiveawayError = "UUID generator cannot be nil"
	ErrNilLogger        GiveawayError = "logger cannot be nil"
)
