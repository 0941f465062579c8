package scoreboard

import "github.com/streamlot/giveabot/internal/models"

// LoadRecordsOutput contains the result of loading the scoreboard
type LoadRecordsOutput struct {
	// Records maps canonical lowercase name to the user's record
	Records map[string]*models.UserRecord
}

// SaveRecordsInput contains parameters for saving the scoreboard
type SaveRecordsInput struct {
	Records map[string]*models.UserRecord
}
