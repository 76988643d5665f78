package events

import (
	"context"
	"time"

	"go-donorsync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository interface {
	Upsert(ctx context.Context, record *EventRecord) error
	Get(ctx context.Context, id string) (*EventRecord, error)
	List(ctx context.Context, filters map[string]interface{}, limit int64) ([]EventRecord, error)
}

type EventRepositoryImpl struct {
	collection *mongo.Collection
}

func NewEventRepository(db *database.MongodbDB) EventRepository {
	return &EventRepositoryImpl{
		collection: db.DB.Collection("webhook_events"),
	}
}

// Upsert writes the record keyed by its composite event key, so replays and
// provider retries overwrite rather than duplicate. The _id is left to the
// server so a retry replaces the stored document in place.
func (r *EventRepositoryImpl) Upsert(ctx context.Context, record *EventRecord) error {
	record.ID = primitive.NilObjectID
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"key": record.Key}, record, opts)
	return err
}

func (r *EventRepositoryImpl) Get(ctx context.Context, id string) (*EventRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var record EventRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filters map[string]interface{}, limit int64) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := bson.M{}
	for k, v := range filters {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		query[k] = v
	}

	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "received_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []EventRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
