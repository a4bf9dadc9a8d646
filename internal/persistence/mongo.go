package persistence

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/storage-service/internal/config"
)

// Mongo wraps access to the shared document store client.
type Mongo struct {
	Client   *mongo.Client
	database string
}

// NewMongo establishes a connection to the document store.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URL()).
		SetServerSelectionTimeout(cfg.ConnectTimeout())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Warn("unable to reach mongodb", zap.Error(err))
	} else {
		logger.Info("connected to mongodb")
	}

	return &Mongo{Client: client, database: cfg.Database}, nil
}

// Collection returns a handle on a collection in the configured database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Database(m.database).Collection(name)
}

// Ping verifies document store connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return mongo.ErrClientDisconnected
	}
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}
