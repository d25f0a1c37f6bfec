package repositories

import "context"

// FractionReader is the fraction/subscription collaborator boundary: the
// engine treats fraction activity state as opaque and only consumes counts
// and ID listings from it.
type FractionReader interface {
	// ListActiveFractionIDs returns the IDs of a condominium's active
	// fractions.
	ListActiveFractionIDs(ctx context.Context, condominiumID string) ([]string, error)

	// ActiveFractionCount returns the number of active fractions of a
	// condominium.
	ActiveFractionCount(ctx context.Context, condominiumID string) (int, error)

	// ActiveFractionCountForSubscription sums active fractions across all
	// condominiums attached to a subscription.
	ActiveFractionCountForSubscription(ctx context.Context, subscriptionID string) (int, error)
}
