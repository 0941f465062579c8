package ignorelist

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/streamlot/giveabot/internal/repositories/ignorelist Repository

// Repository is a durable set of banned entrant names. All names are
// case-normalized to lowercase; Add and Remove persist immediately.
type Repository interface {
	// Load replaces the in-memory set with the persisted contents
	Load(ctx context.Context) error

	// Contains reports whether a name is on the list
	Contains(name string) bool

	// Add puts a name on the list and persists it
	Add(ctx context.Context, name string) error

	// Remove takes a name off the list and persists it
	Remove(ctx context.Context, name string) error

	// Names returns the current list, sorted
	Names() []string
}
