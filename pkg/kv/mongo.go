package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordsCollection = "records"

// record is one key/value document. The value is kept as raw JSON text so
// the collection stays schema-free, matching the record-store contract.
type record struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoStore struct {
	client       *mongo.Client
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoStore(client *mongo.Client, database string, readTimeout, writeTimeout time.Duration) Store {
	return &mongoStore{
		client:       client,
		collection:   client.Database(database).Collection(recordsCollection),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (s *mongoStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *mongoStore) Get(ctx context.Context, key string, out any) error {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	var rec record
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read record %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return nil
}

func (s *mongoStore) Set(ctx context.Context, key string, value any) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	rec := record{
		Key:       key,
		Value:     string(raw),
		UpdatedAt: time.Now().UTC(),
	}

	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete record %q: %w", key, err)
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}
