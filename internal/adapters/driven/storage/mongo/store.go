// Package mongo implements the identity-store ports against the identity
// platform's MongoDB database: record reads, lookup-field writes, and the
// change-stream feed the reconciler consumes.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// usersCollection is the identity platform's user collection.
const usersCollection = "users"

// Ensure IdentityStore implements the interface.
var _ driven.IdentityStore = (*IdentityStore)(nil)

// IdentityStore reads identity records and writes lookup fields in the
// platform's users collection.
type IdentityStore struct {
	users *mongo.Collection
}

// Connect dials the identity database and returns the client plus an
// identity store over it. The caller owns the client's lifecycle.
func Connect(ctx context.Context, desc domain.ConnectionDescriptor) (*mongo.Client, *IdentityStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(desc.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to identity database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("pinging identity database: %w", err)
	}

	return client, NewIdentityStore(client.Database(desc.Database)), nil
}

// NewIdentityStore creates a store over an already connected database.
func NewIdentityStore(db *mongo.Database) *IdentityStore {
	return &IdentityStore{users: db.Collection(usersCollection)}
}

// Get re-fetches the full current identity record for a subject.
func (s *IdentityStore) Get(ctx context.Context, subjectID string) (*domain.IdentityRecord, error) {
	var record domain.IdentityRecord
	err := s.users.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching identity record: %w", err)
	}
	return &record, nil
}

// SetLookup writes all four lookup fields as one combined update, so the
// resulting change event carries only lookup-namespace keys.
func (s *IdentityStore) SetLookup(ctx context.Context, subjectID string, lookup domain.LookupRecord) error {
	prefix := domain.LookupFieldPrefix
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": subjectID}, bson.M{
		"$set": bson.M{
			prefix + ".serviceId":    lookup.ServiceID,
			prefix + ".accessToken":  lookup.AccessToken,
			prefix + ".refreshToken": lookup.RefreshToken,
			prefix + ".expiresAt":    lookup.ExpiresAt,
		},
	})
	if err != nil {
		return fmt.Errorf("writing lookup fields: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
