package driven

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// IdentityStore reads identity records and writes their lookup copy.
// Records are keyed by subject id; a lookup write replaces all four lookup
// fields in a single operation, it never appends. No transactional
// guarantee beyond atomic single-record replace is assumed.
type IdentityStore interface {
	// Get re-fetches the full current identity record.
	// Returns domain.ErrNotFound if the record does not exist.
	Get(ctx context.Context, subjectID string) (*domain.IdentityRecord, error)

	// SetLookup writes the denormalized lookup fields as one combined
	// update under the lookup-field namespace.
	SetLookup(ctx context.Context, subjectID string, lookup domain.LookupRecord) error
}
