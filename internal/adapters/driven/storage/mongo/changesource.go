package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

// Ensure ChangeSource implements the interface.
var _ driven.ChangeSource = (*ChangeSource)(nil)

// ChangeSource adapts a MongoDB change stream on the users collection to
// the domain change feed. Deletes are filtered server-side: removing a
// primary record never retracts its lookup copy.
type ChangeSource struct {
	users *mongo.Collection
}

// NewChangeSource creates a change source over an already connected
// database.
func NewChangeSource(db *mongo.Database) *ChangeSource {
	return &ChangeSource{users: db.Collection(usersCollection)}
}

// changeEvent is the subset of the change-stream document we decode.
type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	UpdateDescription struct {
		UpdatedFields bson.M `bson:"updatedFields"`
	} `bson:"updateDescription"`
}

// Watch opens the change stream and pumps events into the returned
// channel. The channel closes when the stream ends, from cancellation or
// a server-side cursor failure; callers re-Watch to resume.
func (s *ChangeSource) Watch(ctx context.Context) (<-chan domain.IdentityChange, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace"}},
		}}},
	}

	stream, err := s.users.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("opening change stream: %w", err)
	}

	out := make(chan domain.IdentityChange)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event changeEvent
			if err := stream.Decode(&event); err != nil {
				logger.Warn("change stream: decode failed: %v", err)
				continue
			}

			change, ok := toDomain(event)
			if !ok {
				continue
			}

			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Warn("change stream: ended: %v", err)
		}
	}()

	return out, nil
}

// toDomain maps a raw stream event to a domain change notification.
func toDomain(event changeEvent) (domain.IdentityChange, bool) {
	change := domain.IdentityChange{SubjectID: event.DocumentKey.ID}

	switch event.OperationType {
	case "insert":
		change.Type = domain.ChangeInsert
	case "update":
		change.Type = domain.ChangeUpdate
		for field := range event.UpdateDescription.UpdatedFields {
			change.UpdatedFields = append(change.UpdatedFields, field)
		}
	case "replace":
		change.Type = domain.ChangeReplace
	default:
		return domain.IdentityChange{}, false
	}

	return change, true
}
