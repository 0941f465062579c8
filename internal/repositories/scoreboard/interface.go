package scoreboard

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/streamlot/giveabot/internal/repositories/scoreboard Repository

// Repository defines the interface for scoreboard persistence
type Repository interface {
	// LoadRecords reads every persisted user record
	LoadRecords(ctx context.Context) (*LoadRecordsOutput, error)

	// SaveRecords replaces the persisted scoreboard with the given records
	SaveRecords(ctx context.Context, input *SaveRecordsInput) error
}
