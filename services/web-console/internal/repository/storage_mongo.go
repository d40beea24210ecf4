package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const storageCollection = "console_storage"

type storageDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type mongoStorage struct {
	db *mongo.Database
}

// NewMongoStorage returns a Storage keeping one document per key. The database is
// pinged once so that a misconfigured URI fails at startup.
func NewMongoStorage(ctx context.Context, db *mongo.Database) (Storage, error) {
	if err := db.Client().Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping console storage database: %w", err)
	}

	return &mongoStorage{db: db}, nil
}

func (s *mongoStorage) Get(ctx context.Context, key string) (string, bool, error) {
	result := s.db.Collection(storageCollection).FindOne(ctx, bson.M{"_id": key})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}

	var doc storageDocument
	if err := result.Decode(&doc); err != nil {
		return "", false, err
	}

	return doc.Value, true, nil
}

func (s *mongoStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Collection(storageCollection).UpdateOne(
		ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *mongoStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.Collection(storageCollection).DeleteOne(ctx, bson.M{"_id": key})
	return err
}
