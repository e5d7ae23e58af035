// Package scoredb implements the score store on MongoDB.
package scoredb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verte-zerg/typelab/internal/model"
)

const (
	databaseName   = "typelab"
	collectionName = "scores"
	connectTimeout = 10 * time.Second
)

// Store persists score records in a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type scoreDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	WPM       float64            `bson:"wpm"`
	Accuracy  float64            `bson:"accuracy"`
	RawWPM    float64            `bson:"raw_wpm"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Open connects to MongoDB, pings it, and prepares the scores collection.
func Open(ctx context.Context, uri string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			// Best-effort disconnect on ping failure.
			_ = derr
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	store := &Store{
		client: client,
		coll:   client.Database(databaseName).Collection(collectionName),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "wpm", Value: -1}, {Key: "accuracy", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert stores a new record and returns it with the assigned identifier.
func (s *Store) Insert(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error) {
	doc := scoreDoc{
		Name:      rec.Name,
		WPM:       rec.WPM,
		Accuracy:  rec.Accuracy,
		RawWPM:    rec.RawWPM,
		CreatedAt: rec.CreatedAt,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to insert score: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return rec, nil
}

// ListSince returns records created at or after the given time.
func (s *Store) ListSince(ctx context.Context, since time.Time) ([]model.ScoreRecord, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent scores: %w", err)
	}
	return decodeRecords(ctx, cursor)
}

// ListTop returns records ordered by wpm descending, accuracy breaking ties.
// A non-positive limit returns the full history.
func (s *Store) ListTop(ctx context.Context, limit int) ([]model.ScoreRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "wpm", Value: -1}, {Key: "accuracy", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	return decodeRecords(ctx, cursor)
}

func decodeRecords(ctx context.Context, cursor *mongo.Cursor) ([]model.ScoreRecord, error) {
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			// Best-effort cursor close.
			_ = cerr
		}
	}()
	var recs []model.ScoreRecord
	for cursor.Next(ctx) {
		var doc scoreDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode score: %w", err)
		}
		recs = append(recs, model.ScoreRecord{
			ID:        doc.ID.Hex(),
			Name:      doc.Name,
			WPM:       doc.WPM,
			Accuracy:  doc.Accuracy,
			RawWPM:    doc.RawWPM,
			CreatedAt: doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	return recs, nil
}
