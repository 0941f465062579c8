package twitch

import (
	"context"

	"github.com/streamlot/giveabot/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_resolver.go github.com/streamlot/giveabot/internal/twitch Resolver

// Resolver maps chat names to Twitch identities and subscription tiers
type Resolver interface {
	// ResolveUserID looks up the Twitch user ID for a login name
	ResolveUserID(ctx context.Context, login string) (string, error)

	// GetSubscriptionTier looks up the user's subscription tier on the
	// configured channel. A user with no active subscription is TierNone,
	// not an error; errors mean the lookup itself failed.
	GetSubscriptionTier(ctx context.Context, userID string) (models.SubscriptionTier, error)
}
