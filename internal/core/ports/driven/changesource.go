package driven

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// ChangeSource delivers identity-store change notifications as a stream of
// typed events. Implementations filter to insert/update/replace upstream;
// the channel closes when the underlying feed disconnects or the context is
// cancelled. Consumers that want to keep observing simply call Watch again;
// no backfill of missed history is attempted.
type ChangeSource interface {
	// Watch starts observing changes. Events are delivered in feed order.
	Watch(ctx context.Context) (<-chan domain.IdentityChange, error)
}
