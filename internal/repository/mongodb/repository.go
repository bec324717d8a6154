package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	laborersCollection = "laborers"
	hoursCollection    = "laborHours"
)

// Store wraps the MongoDB client and hands out collection repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the uniqueness and query indexes. The unique
// compound index on (cardNo, category) closes the duplicate-card race that
// a read-then-write guard alone cannot; likewise (laborerId, date) keeps
// the hours upsert to a single record per pair.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(laborersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cardNo", Value: 1}, {Key: "category", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create laborers index: %w", err)
	}

	_, err = s.db.Collection(hoursCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "laborerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create laborHours indexes: %w", err)
	}

	return nil
}

// Laborers returns the laborers collection repository.
func (s *Store) Laborers() *LaborerRepo {
	return &LaborerRepo{coll: s.db.Collection(laborersCollection)}
}

// Hours returns the laborHours collection repository.
func (s *Store) Hours() *HoursRepo {
	return &HoursRepo{coll: s.db.Collection(hoursCollection)}
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
