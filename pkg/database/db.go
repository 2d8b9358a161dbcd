// Package database opens the document store shared by every handler.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jantrick/jantrick/config"
)

// Collection names.
const (
	CollUsers      = "user"
	CollTools      = "tools"
	CollOrders     = "myOrders"
	CollReviews    = "reviews"
	CollPayments   = "payment"
	CollMigrations = "migrations"
)

const connectTimeout = 10 * time.Second

// Connect opens one pooled client and verifies it with a ping. Nested
// documents decode as bson.M so results serialise as plain JSON objects.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(connectTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetAppName("jantrick")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return client, nil
}

// Database returns the configured database handle.
func Database(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.DBName)
}
