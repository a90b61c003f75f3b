// Package mongo stores journal entries as documents in a MongoDB collection.
// Entry ids are ObjectID hex strings; document keys match the entry field names.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
)

type document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Body          string             `bson:"body"`
	Sentiment     *string            `bson:"sentiment"`
	Timestamp     string             `bson:"timestamp"`
	LastTimestamp *string            `bson:"last timestamp,omitempty"`
}

// Store is a MongoDB backed store.Store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri and verifies the deployment answers a ping.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *Store) Entries() store.Entries { return s }

func (s *Store) Close() error { return s.client.Disconnect(context.Background()) }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *Store) Create(ctx context.Context, e *model.JournalEntry) (string, error) {
	doc := document{
		ID:            primitive.NewObjectID(),
		Body:          e.Body,
		Sentiment:     e.Sentiment,
		Timestamp:     e.Timestamp,
		LastTimestamp: e.LastTimestamp,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (s *Store) List(ctx context.Context) ([]*model.JournalEntry, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*model.JournalEntry
	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		out = append(out, d.entry())
	}
	return out, cur.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*model.JournalEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}
	var d document
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return d.entry(), nil
}

func (s *Store) Update(ctx context.Context, id string, fields model.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrNotFound
	}
	if len(fields) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}
	set := bson.M{}
	for f, v := range fields {
		if v == nil {
			set[string(f)] = nil
			continue
		}
		set[string(f)] = *v
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, q model.Fields) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	n, err := s.coll.CountDocuments(ctx, filter(q), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return n > 0, nil
}

// filter builds an equality filter. A nil value matches a null or missing key.
func filter(q model.Fields) bson.M {
	f := bson.M{}
	for k, v := range q {
		if v == nil {
			f[string(k)] = nil
			continue
		}
		f[string(k)] = *v
	}
	return f
}

func (d document) entry() *model.JournalEntry {
	return &model.JournalEntry{
		ID:            d.ID.Hex(),
		Body:          d.Body,
		Sentiment:     d.Sentiment,
		Timestamp:     d.Timestamp,
		LastTimestamp: d.LastTimestamp,
	}
}
