// Package mongo stores transfers and wallets in MongoDB. A wallet is a single
// document holding all of its currency balances, so every balance op is one
// conditional update on one document.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrEmptyURI is returned when the Mongo URI is empty
	ErrEmptyURI = errors.New("mongo uri cannot be empty")
	// ErrEmptyDatabaseName is returned when the database name is empty
	ErrEmptyDatabaseName = errors.New("database name cannot be empty")
)

// Config defines the MongoDB connection and collection names
type Config struct {
	URI                 string
	Database            string
	TransfersCollection string
	WalletsCollection   string
	Timeout             time.Duration
}

func (cfg Config) normalize() Config {
	if cfg.TransfersCollection == "" {
		cfg.TransfersCollection = "transfers"
	}
	if cfg.WalletsCollection == "" {
		cfg.WalletsCollection = "wallets"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

func (cfg Config) validate() error {
	if strings.TrimSpace(cfg.URI) == "" {
		return ErrEmptyURI
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return ErrEmptyDatabaseName
	}
	return nil
}

// DB wraps the client and the two collections used by the repositories
type DB struct {
	Client    *mongo.Client
	Transfers *mongo.Collection
	Wallets   *mongo.Collection
}

// Connect validates cfg, connects and pings the server
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	cfg = cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	database := client.Database(cfg.Database)
	return &DB{
		Client:    client,
		Transfers: database.Collection(cfg.TransfersCollection),
		Wallets:   database.Collection(cfg.WalletsCollection),
	}, nil
}

// EnsureIndexes creates the indexes the repositories rely on.
// The unique address index makes concurrent wallet upserts converge on one document.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.Wallets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "address", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create wallets index: %w", err)
	}

	_, err = db.Transfers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from.accountAddress", Value: 1}}},
		{Keys: bson.D{{Key: "to.accountAddress", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transfers indexes: %w", err)
	}

	return nil
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
