package models

// SubscriptionTier represents a Twitch subscription level
type SubscriptionTier string

const (
	// TierNone indicates the user has no active subscription
	TierNone SubscriptionTier = "none"

	// Tier1 is a level one subscription (Helix tier "1000")
	Tier1 SubscriptionTier = "tier1"

	// Tier2 is a level two subscription (Helix tier "2000")
	Tier2 SubscriptionTier = "tier2"

	// Tier3 is a level three subscription (Helix tier "3000")
	Tier3 SubscriptionTier = "tier3"
)

// TierFromHelix maps a Helix subscription payload value to a tier.
// Anything unrecognized is treated as no subscription.
func TierFromHelix(code string) SubscriptionTier {
	switch code {
	case "1000":
		return Tier1
	case "2000":
		return Tier2
	case "3000":
		return Tier3
	default:
		return TierNone
	}
}
