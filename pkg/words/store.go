package words

import "context"

// Store is the persistence contract for word records. Implementations must
// make UpsertBySighting a single atomic insert-or-increment so concurrent
// sightings of the same word cannot lose an increment.
type Store interface {
	// UpsertBySighting creates the word with frequency 1 on first sighting,
	// or increments its frequency by exactly 1.
	UpsertBySighting(ctx context.Context, word string) (*Record, error)

	// ListAll returns every record ordered by frequency descending.
	// Ordering among equal frequencies is unspecified.
	ListAll(ctx context.Context) ([]Record, error)

	// UpdateDetails replaces the four detail fields wholesale and stamps the
	// fetch timestamp to now. Returns ErrNotFound if id does not exist.
	UpdateDetails(ctx context.Context, id string, d Details) (*Record, error)

	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Record, error)
}
