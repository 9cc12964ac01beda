// Package storage owns the MongoDB client shared by the lead
// repositories. The client is created on first use and revalidated
// before reuse so a stale connection never silently fails a request.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/verifycheck/leads-api/pkg/logging"
)

// Conn is a lazily-initialized MongoDB connection handle. It is safe
// for concurrent use; all callers share one underlying client.
type Conn struct {
	uri    string
	dbName string
	logger *logging.Logger

	mu     sync.Mutex
	client *mongo.Client
}

// NewConn creates a handle without connecting. The first call to
// Database or Ping establishes the connection.
func NewConn(uri, dbName string, logger *logging.Logger) *Conn {
	if logger == nil {
		logger = logging.Default()
	}
	return &Conn{
		uri:    uri,
		dbName: dbName,
		logger: logger,
	}
}

// Database returns a handle to the configured database, connecting or
// reconnecting as needed.
func (c *Conn) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.dbName), nil
}

// Ping verifies connectivity, establishing the connection if it does
// not exist yet.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.ensureClient(ctx)
	return err
}

// Close disconnects the underlying client if one was established.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}

func (c *Conn) ensureClient(ctx context.Context) (*mongo.Client, error) {
	if c.uri == "" {
		return nil, fmt.Errorf("storage: MONGODB_URI not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		if err := c.client.Ping(ctx, readpref.Primary()); err == nil {
			return c.client, nil
		}
		// Stale connection; drop it and reconnect below.
		c.logger.Warn("storage: cached mongo connection not ready, resetting")
		_ = c.client.Disconnect(ctx)
		c.client = nil
	}

	opts := options.Client().
		ApplyURI(c.uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetTimeout(45 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(1)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("storage: mongo ping: %w", err)
	}

	c.logger.Info("storage: mongo connection established", "database", c.dbName)
	c.client = client
	return c.client, nil
}
