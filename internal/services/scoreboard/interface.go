package scoreboard

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/streamlot/giveabot/internal/services/scoreboard Service

// Service defines the interface for scoreboard operations
type Service interface {
	// Load replaces the in-memory scoreboard with the persisted contents
	Load(ctx context.Context) error

	// Save persists every record, atomically replacing the store
	Save(ctx context.Context) error

	// Get retrieves a user's record without creating one
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Add records a round entry for a user, creating the record on first
	// entry and refreshing identity and tier on every entry
	Add(ctx context.Context, input *AddInput) (*AddOutput, error)

	// Bump manually adds multiplier x bump luck to an existing user
	Bump(ctx context.Context, input *BumpInput) (*BumpOutput, error)

	// Reset zeroes luck and the win streak for a confirmed winner
	Reset(ctx context.Context, input *ResetInput) error

	// Punish strips a percentage of a user's luck
	Punish(ctx context.Context, input *PunishInput) (*PunishOutput, error)

	// Records returns a snapshot of every record, sorted by luck
	// descending then name
	Records(ctx context.Context) (*RecordsOutput, error)
}
