// Package mongo is the production storage backend: one collection per
// aggregate, optimistic concurrency via a version field, and a unit of
// work that batches writes into a driver session transaction.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collProperties  = "properties"
	collCalendars   = "calendars"
	collBookings    = "bookings"
	collUsers       = "users"
	collSessions    = "sessions"
	collOutbox      = "outbox"
	collIdempotency = "idempotency"
)

// Connect dials the cluster and verifies it answers a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

// Database wraps the named database with the repository constructors.
type Database struct {
	db *mongo.Database
}

func NewDatabase(client *mongo.Client, name string) *Database {
	return &Database{db: client.Database(name)}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, readpref.Primary())
}
