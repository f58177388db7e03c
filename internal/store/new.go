package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
)

const collectionName = "summaries"

type implStore struct {
	client  *mongo.Client
	records *mongo.Collection
	logger  logger.Logger
}

// New connects to MongoDB and returns a Store over the summaries collection
func New(ctx context.Context, uri, database string, log logger.Logger) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &implStore{
		client:  client,
		records: client.Database(database).Collection(collectionName),
		logger:  log,
	}, nil
}

func (s *implStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
