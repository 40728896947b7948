package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Ensure ChangeFeed implements the interface.
var _ driven.ChangeSource = (*ChangeFeed)(nil)

// ChangeFeed is a manually driven change source. Tests push change
// notifications through Emit and close the feed with Close.
type ChangeFeed struct {
	mu     sync.Mutex
	ch     chan domain.IdentityChange
	closed bool
}

// NewChangeFeed creates a change feed with a small buffer so Emit does
// not block the caller.
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{
		ch: make(chan domain.IdentityChange, 16),
	}
}

// Watch returns the feed channel.
func (f *ChangeFeed) Watch(_ context.Context) (<-chan domain.IdentityChange, error) {
	return f.ch, nil
}

// Emit pushes a change notification to the watcher.
func (f *ChangeFeed) Emit(change domain.IdentityChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.ch <- change
}

// Close ends the feed. Watchers see the channel close.
func (f *ChangeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}
