package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// SearchQueryCollection is the backing collection for databrowser stats.
const SearchQueryCollection = "search_queries"

// SearchQueryRepository defines persistence access for databrowser search
// statistics. Find results are ordered by insertion unless the filter says
// otherwise; FindEach iterates lazily over the underlying cursor.
type SearchQueryRepository interface {
	Add(ctx context.Context, record *domain.SearchQueryRecord) (string, error)
	Find(ctx context.Context, filter SearchFilter) ([]domain.SearchQueryRecord, error)
	FindEach(ctx context.Context, filter SearchFilter, fn func(domain.SearchQueryRecord) error) error
	Replace(ctx context.Context, id string, record *domain.SearchQueryRecord) error
	Delete(ctx context.Context, filter SearchFilter) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

// searchDocument is the stored shape; the _id never leaves this package
// as anything but a hex string.
type searchDocument struct {
	ID       primitive.ObjectID    `bson:"_id,omitempty"`
	User     string                `bson:"user"`
	Query    map[string]string     `bson:"query"`
	Metadata domain.SearchMetadata `bson:"metadata"`
}

func (d searchDocument) toRecord() domain.SearchQueryRecord {
	return domain.SearchQueryRecord{
		ID:       d.ID.Hex(),
		User:     d.User,
		Query:    d.Query,
		Metadata: d.Metadata,
	}
}

func searchDocumentFrom(record *domain.SearchQueryRecord) searchDocument {
	return searchDocument{
		User:     record.User,
		Query:    record.Query,
		Metadata: record.Metadata,
	}
}

type searchQueryRepository struct {
	collection *mongo.Collection
}

// NewSearchQueryRepository returns a document store backed implementation.
func NewSearchQueryRepository(collection *mongo.Collection) SearchQueryRepository {
	return &searchQueryRepository{collection: collection}
}

func (r *searchQueryRepository) Add(ctx context.Context, record *domain.SearchQueryRecord) (string, error) {
	result, err := r.collection.InsertOne(ctx, searchDocumentFrom(record))
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

func (r *searchQueryRepository) Find(ctx context.Context, filter SearchFilter) ([]domain.SearchQueryRecord, error) {
	records := make([]domain.SearchQueryRecord, 0)
	err := r.FindEach(ctx, filter, func(rec domain.SearchQueryRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *searchQueryRepository) FindEach(ctx context.Context, filter SearchFilter, fn func(domain.SearchQueryRecord) error) error {
	query, err := BuildSearchQuery(filter)
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
		var doc searchDocument
		if err := cursor.Decode(&doc); err != nil {
			return mapStoreError(err)
		}
		if err := fn(doc.toRecord()); err != nil {
			return err
		}
	}
	return mapStoreError(cursor.Err())
}

func (r *searchQueryRepository) Replace(ctx context.Context, id string, record *domain.SearchQueryRecord) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, searchDocumentFrom(record))
	if err != nil {
		return mapStoreError(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("search record", map[string]any{"id": id})
	}
	record.ID = id
	return nil
}

func (r *searchQueryRepository) Delete(ctx context.Context, filter SearchFilter) (int64, error) {
	query, err := BuildSearchQuery(filter)
	if err != nil {
		return 0, err
	}
	result, err := r.collection.DeleteMany(ctx, query)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return result.DeletedCount, nil
}

func (r *searchQueryRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapStoreError(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFound("search record", map[string]any{"id": id})
	}
	return nil
}
