package scoreboard

// ScoreboardError is a custom error type for scoreboard-related errors
type ScoreboardError string

// Error implements the error interface
func (e ScoreboardError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrUserNotFound ScoreboardError = "user not found on scoreboard"
	ErrEmptyName    ScoreboardError = "name cannot be empty"
	ErrNilConfig    ScoreboardError = "config cannot be nil"
	ErrNilRepo      ScoreboardError = "scoreboard repository cannot be nil"
	ErrNilResolver  ScoreboardError = "resolver cannot be nil"
	ErrNilClock     ScoreboardError = "clock cannot be nil"
	ErrNilLogger    ScoreboardError = "logger cannot be nil"
)
