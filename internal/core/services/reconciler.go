package services

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// Reconciler copies freshly issued or updated delegated credentials from
// the authoritative identity record into the lookup fields, driven by the
// identity store's change feed.
//
// It is a single-threaded consumer: events are processed strictly in feed
// order, one get-then-maybe-write sequence at a time. The only guard
// against reacting to its own writes is the lookup-namespace prefix check
// on update events, which is heuristic rather than transactional.
type Reconciler struct {
	source driven.ChangeSource
	store  driven.IdentityStore
}

// NewReconciler creates a reconciler over the given change source and
// identity store.
func NewReconciler(source driven.ChangeSource, store driven.IdentityStore) *Reconciler {
	return &Reconciler{
		source: source,
		store:  store,
	}
}

// Run consumes change events until the context is cancelled. When the feed
// channel closes (disconnect), Run re-establishes it and resumes observing
// new changes; missed history is not backfilled, the next genuine change
// re-synchronizes the lookup copy.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		changes, err := r.source.Watch(ctx)
		if err != nil {
			return err
		}
		logger.Info("reconciler: observing identity changes")

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case change, ok := <-changes:
				if !ok {
					logger.Warn("reconciler: change feed closed, reconnecting")
					changes = nil
				} else {
					r.handle(ctx, change)
				}
			}
			if changes == nil {
				break
			}
		}
	}
}

// handle processes one change notification. All errors are logged and the
// event is dropped: the reconciler never retries a specific missed event,
// relying on the next genuine change to converge.
func (r *Reconciler) handle(ctx context.Context, change domain.IdentityChange) {
	// The reconciler's own lookup write is itself a qualifying update;
	// discarding it here breaks the update→notify→update cycle.
	if change.SelfOriginated() {
		logger.Debug("reconciler: skipping self-originated update for %s", change.SubjectID)
		return
	}

	// The notification carries only a key or delta; re-fetch the full
	// current state.
	record, err := r.store.Get(ctx, change.SubjectID)
	if err != nil {
		logger.Warn("reconciler: fetch %s failed: %v", change.SubjectID, err)
		return
	}

	if record.OAuthCredential == nil {
		return
	}

	// Idempotence: repeated notifications for the same state must not
	// cause repeated writes.
	if record.Lookup != nil && record.Lookup.AccessToken == record.OAuthCredential.AccessToken {
		return
	}

	lookup := domain.LookupRecord{
		ServiceID:    record.OAuthCredential.ID,
		AccessToken:  record.OAuthCredential.AccessToken,
		RefreshToken: record.OAuthCredential.RefreshToken,
		ExpiresAt:    record.OAuthCredential.ExpiresAt,
	}
	if err := r.store.SetLookup(ctx, change.SubjectID, lookup); err != nil {
		logger.Warn("reconciler: lookup write for %s failed: %v", change.SubjectID, err)
		return
	}

	name := record.Username
	if name == "" {
		name = change.SubjectID
	}
	logger.Info("reconciler: copied credential for %s", name)
}
