package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// PluginStatsCollection is the backing collection for plugin run stats.
const PluginStatsCollection = "plugin_stats"

// PluginStatsRepository defines persistence access for plugin execution
// statistics.
type PluginStatsRepository interface {
	Add(ctx context.Context, record *domain.PluginStatRecord) (string, error)
	Find(ctx context.Context, filter StatsFilter) ([]domain.PluginStatRecord, error)
	FindEach(ctx context.Context, filter StatsFilter, fn func(domain.PluginStatRecord) error) error
	Replace(ctx context.Context, id string, record *domain.PluginStatRecord) error
	Delete(ctx context.Context, filter StatsFilter) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type statDocument struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	PluginName string              `bson:"plugin_name"`
	User       string              `bson:"user"`
	Status     domain.PluginStatus `bson:"status"`
	Version    string              `bson:"version,omitempty"`
	StartedAt  time.Time           `bson:"started_at"`
	FinishedAt *time.Time          `bson:"finished_at,omitempty"`
	Date       time.Time           `bson:"date"`
}

func (d statDocument) toRecord() domain.PluginStatRecord {
	return domain.PluginStatRecord{
		ID:         d.ID.Hex(),
		PluginName: d.PluginName,
		User:       d.User,
		Status:     d.Status,
		Version:    d.Version,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Date:       d.Date,
	}
}

func statDocumentFrom(record *domain.PluginStatRecord) statDocument {
	return statDocument{
		PluginName: record.PluginName,
		User:       record.User,
		Status:     record.Status,
		Version:    record.Version,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		Date:       record.Date,
	}
}

type pluginStatsRepository struct {
	collection *mongo.Collection
}

// NewPluginStatsRepository returns a document store backed implementation.
func NewPluginStatsRepository(collection *mongo.Collection) PluginStatsRepository {
	return &pluginStatsRepository{collection: collection}
}

func (r *pluginStatsRepository) Add(ctx context.Context, record *domain.PluginStatRecord) (string, error) {
	result, err := r.collection.InsertOne(ctx, statDocumentFrom(record))
	if err != nil {
		return "", mapStoreError(err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", apperrors.NewInternalError(nil)
	}
	record.ID = oid.Hex()
	return record.ID, nil
}

func (r *pluginStatsRepository) Find(ctx context.Context, filter StatsFilter) ([]domain.PluginStatRecord, error) {
	records := make([]domain.PluginStatRecord, 0)
	err := r.FindEach(ctx, filter, func(rec domain.PluginStatRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *pluginStatsRepository) FindEach(ctx context.Context, filter StatsFilter, fn func(domain.PluginStatRecord) error) error {
	query, err := BuildStatsQuery(filter)
	if err != nil {
		return err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return mapStoreError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc statDocument
		if err := cursor.Decode(&doc); err != nil {
			return mapStoreError(err)
		}
		if err := fn(doc.toRecord()); err != nil {
			return err
		}
	}
	return mapStoreError(cursor.Err())
}

func (r *pluginStatsRepository) Replace(ctx context.Context, id string, record *domain.PluginStatRecord) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, statDocumentFrom(record))
	if err != nil {
		return mapStoreError(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("plugin stat", map[string]any{"id": id})
	}
	record.ID = id
	return nil
}

func (r *pluginStatsRepository) Delete(ctx context.Context, filter StatsFilter) (int64, error) {
	query, err := BuildStatsQuery(filter)
	if err != nil {
		return 0, err
	}
	result, err := r.collection.DeleteMany(ctx, query)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return result.DeletedCount, nil
}

func (r *pluginStatsRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapStoreError(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFound("plugin stat", map[string]any{"id": id})
	}
	return nil
}
