package repository

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// resultsOperators maps the wire comparison names onto mongo operators.
var resultsOperators = map[string]string{
	"gte": "$gte",
	"lte": "$lte",
	"gt":  "$gt",
	"lt":  "$lt",
	"eq":  "$eq",
}

var knownFacets = func() map[string]struct{} {
	m := make(map[string]struct{}, len(domain.SearchFlavourFacets))
	for _, f := range domain.SearchFlavourFacets {
		m[f] = struct{}{}
	}
	return m
}()

// SearchFilter selects stored databrowser search records.
// String fields match case-insensitively as regular expressions,
// mirroring how the statistics are queried by analysts.
type SearchFilter struct {
	User            string
	Facets          map[string]string
	Flavour         string
	UniqKey         string
	ServerStatus    *int
	NumResults      *int
	ResultsOperator string
	Before          time.Time
	After           time.Time
}

// IsZero reports whether no criteria are set.
func (f SearchFilter) IsZero() bool {
	return f.User == "" && len(f.Facets) == 0 && f.Flavour == "" && f.UniqKey == "" &&
		f.ServerStatus == nil && f.NumResults == nil && f.Before.IsZero() && f.After.IsZero()
}

// BuildSearchQuery translates the filter into a document store query.
func BuildSearchQuery(f SearchFilter) (bson.M, error) {
	query := bson.M{}

	if f.User != "" {
		expr, err := regexFilter(f.User)
		if err != nil {
			return nil, err
		}
		query["user"] = expr
	}
	for key, value := range f.Facets {
		if _, ok := knownFacets[key]; !ok {
			return nil, apperrors.NewInvalidFilter(
				fmt.Sprintf("unknown facet %q", key), map[string]any{"facet": key})
		}
		expr, err := regexFilter(value)
		if err != nil {
			return nil, err
		}
		query["query."+key] = expr
	}
	if f.Flavour != "" {
		expr, err := regexFilter(f.Flavour)
		if err != nil {
			return nil, err
		}
		query["metadata.flavour"] = expr
	}
	if f.UniqKey != "" {
		query["metadata.uniq_key"] = f.UniqKey
	}
	if f.ServerStatus != nil {
		query["metadata.server_status"] = *f.ServerStatus
	}
	if f.NumResults != nil {
		op := f.ResultsOperator
		if op == "" {
			op = "gte"
		}
		mongoOp, ok := resultsOperators[op]
		if !ok {
			return nil, apperrors.NewInvalidFilter(
				fmt.Sprintf("unknown results operator %q", op), map[string]any{"operator": op})
		}
		query["metadata.num_results"] = bson.M{mongoOp: *f.NumResults}
	}
	if dateQ := dateQuery(f.Before, f.After); len(dateQ) > 0 {
		query["metadata.date"] = dateQ
	}

	return query, nil
}

// StatsFilter selects stored plugin run statistics.
type StatsFilter struct {
	PluginName string
	User       string
	Status     domain.PluginStatus
	Before     time.Time
	After      time.Time
}

// IsZero reports whether no criteria are set.
func (f StatsFilter) IsZero() bool {
	return f.PluginName == "" && f.User == "" && f.Status == "" &&
		f.Before.IsZero() && f.After.IsZero()
}

// BuildStatsQuery translates the filter into a document store query.
func BuildStatsQuery(f StatsFilter) (bson.M, error) {
	query := bson.M{}

	if f.PluginName != "" {
		expr, err := regexFilter(f.PluginName)
		if err != nil {
			return nil, err
		}
		query["plugin_name"] = expr
	}
	if f.User != "" {
		expr, err := regexFilter(f.User)
		if err != nil {
			return nil, err
		}
		query["user"] = expr
	}
	if f.Status != "" {
		if !domain.ValidPluginStatus(f.Status) {
			return nil, apperrors.NewInvalidFilter(
				fmt.Sprintf("unknown status %q", f.Status), map[string]any{"status": string(f.Status)})
		}
		query["status"] = f.Status
	}
	if dateQ := dateQuery(f.Before, f.After); len(dateQ) > 0 {
		query["date"] = dateQ
	}

	return query, nil
}

// regexFilter validates the pattern before it reaches the store so a bad
// query shape surfaces as InvalidFilter rather than a backend fault.
func regexFilter(pattern string) (primitive.Regex, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return primitive.Regex{}, apperrors.NewInvalidFilter(
			fmt.Sprintf("invalid pattern %q", pattern), map[string]any{"pattern": pattern})
	}
	return primitive.Regex{Pattern: pattern, Options: "ix"}, nil
}

func dateQuery(before, after time.Time) bson.M {
	q := bson.M{}
	if !before.IsZero() {
		q["$lte"] = before.UTC()
	}
	if !after.IsZero() {
		q["$gte"] = after.UTC()
	}
	return q
}

// parseObjectID converts a wire id into a store key.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewInvalidFilter(
			fmt.Sprintf("invalid id %q", id), map[string]any{"id": id})
	}
	return oid, nil
}
