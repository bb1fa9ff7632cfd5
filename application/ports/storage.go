package ports

import "context"

// Durable storage keys
const (
	KeyInspirations    = "inspirations"
	KeyUserPreferences = "userPreferences"
)

// KeyValueStore is the durable, string-valued storage the stores persist to.
// This is a port in hexagonal architecture - adapters live under
// infrastructure/persistence.
type KeyValueStore interface {
	// GetItem returns the value for key; found is false when the key is absent
	GetItem(ctx context.Context, key string) (value string, found bool, err error)

	// SetItem stores value under key, replacing any previous value
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key; removing an absent key is not an error
	RemoveItem(ctx context.Context, key string) error
}
