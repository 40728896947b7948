package driving

import "context"

// Reconciler keeps the lookup copy of delegated credentials in sync with
// the authoritative identity records.
type Reconciler interface {
	// Run consumes the change feed until the context is cancelled.
	// Per-event errors are logged and dropped; Run only returns the
	// context error or a failure to (re)establish the feed.
	Run(ctx context.Context) error
}
