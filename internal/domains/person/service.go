package person

import "context"

// Service định nghĩa contract cho business logic layer
type Service interface {
	// Create validates the payload, runs the cache-based uniqueness
	// pre-check, populates the cache and enqueues the creation event.
	// Returns the issued id. Durability happens later, off this path.
	//
	// Errors: a validation error (ozzo) for bad payloads,
	// ErrNicknameTaken when the nickname marker is already set.
	Create(ctx context.Context, req CreatePersonRequest) (string, error)

	// GetByID returns the serialized person body: cache hit verbatim,
	// else durable store with best-effort cache repopulation.
	// Returns ErrPersonNotFound when neither tier knows the id.
	GetByID(ctx context.Context, id string) ([]byte, error)

	// Search queries the durable store directly; the cache tier is never
	// consulted for searches.
	Search(ctx context.Context, term string) ([]Person, error)

	// Count returns the number of durable records, excluding synthetic
	// warmup rows.
	Count(ctx context.Context) (int64, error)
}
