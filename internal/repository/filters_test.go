package repository

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

func assertInvalidFilter(t *testing.T, err error) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Code != "INVALID_FILTER" {
		t.Errorf("expected INVALID_FILTER, got %s", domainErr.Code)
	}
	if domainErr.Retryable() {
		t.Error("InvalidFilter must not be retryable")
	}
}

func TestBuildSearchQuery_Facets(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	query, err := BuildSearchQuery(SearchFilter{
		User:         "jdoe",
		Facets:       map[string]string{"project": "cmip6", "variable": "tas"},
		Flavour:      "freva",
		UniqKey:      "file",
		ServerStatus: intPtr(200),
	})
	if err != nil {
		t.Fatalf("BuildSearchQuery: %v", err)
	}

	if got, ok := query["query.project"].(primitive.Regex); !ok || got.Pattern != "cmip6" || got.Options != "ix" {
		t.Errorf("unexpected project filter: %#v", query["query.project"])
	}
	if _, ok := query["query.variable"]; !ok {
		t.Error("missing variable filter")
	}
	if got, ok := query["user"].(primitive.Regex); !ok || got.Pattern != "jdoe" {
		t.Errorf("unexpected user filter: %#v", query["user"])
	}
	if got := query["metadata.uniq_key"]; got != "file" {
		t.Errorf("uniq_key must match exactly, got %#v", got)
	}
	if got := query["metadata.server_status"]; got != 200 {
		t.Errorf("unexpected server_status filter: %#v", got)
	}
}

func TestBuildSearchQuery_NumResultsOperators(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	cases := []struct {
		operator string
		want     string
	}{
		{"", "$gte"},
		{"gte", "$gte"},
		{"lte", "$lte"},
		{"gt", "$gt"},
		{"lt", "$lt"},
		{"eq", "$eq"},
	}
	for _, tc := range cases {
		query, err := BuildSearchQuery(SearchFilter{NumResults: intPtr(10), ResultsOperator: tc.operator})
		if err != nil {
			t.Fatalf("operator %q: %v", tc.operator, err)
		}
		clause, ok := query["metadata.num_results"].(bson.M)
		if !ok {
			t.Fatalf("operator %q: unexpected clause %#v", tc.operator, query["metadata.num_results"])
		}
		if got := clause[tc.want]; got != 10 {
			t.Errorf("operator %q: expected %s clause, got %#v", tc.operator, tc.want, clause)
		}
	}

	_, err := BuildSearchQuery(SearchFilter{NumResults: intPtr(10), ResultsOperator: "between"})
	assertInvalidFilter(t, err)
}

func TestBuildSearchQuery_DateBounds(t *testing.T) {
	before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	query, err := BuildSearchQuery(SearchFilter{Before: before, After: after})
	if err != nil {
		t.Fatalf("BuildSearchQuery: %v", err)
	}
	clause, ok := query["metadata.date"].(bson.M)
	if !ok {
		t.Fatalf("unexpected date clause: %#v", query["metadata.date"])
	}
	if clause["$lte"] != before || clause["$gte"] != after {
		t.Errorf("unexpected bounds: %#v", clause)
	}
}

func TestBuildSearchQuery_Rejections(t *testing.T) {
	_, err := BuildSearchQuery(SearchFilter{Facets: map[string]string{"colour": "blue"}})
	assertInvalidFilter(t, err)

	_, err = BuildSearchQuery(SearchFilter{User: "["})
	assertInvalidFilter(t, err)
}

func TestBuildStatsQuery(t *testing.T) {
	query, err := BuildStatsQuery(StatsFilter{
		PluginName: "animator",
		User:       "jdoe",
		Status:     domain.PluginStatusFinished,
	})
	if err != nil {
		t.Fatalf("BuildStatsQuery: %v", err)
	}
	if got, ok := query["plugin_name"].(primitive.Regex); !ok || got.Pattern != "animator" {
		t.Errorf("unexpected plugin_name filter: %#v", query["plugin_name"])
	}
	if got := query["status"]; got != domain.PluginStatusFinished {
		t.Errorf("status must match exactly, got %#v", got)
	}

	_, err = BuildStatsQuery(StatsFilter{Status: "crashed"})
	assertInvalidFilter(t, err)
}

func TestFilterIsZero(t *testing.T) {
	if !(SearchFilter{}).IsZero() {
		t.Error("empty search filter must be zero")
	}
	if (SearchFilter{User: "jdoe"}).IsZero() {
		t.Error("search filter with user must not be zero")
	}
	if !(StatsFilter{}).IsZero() {
		t.Error("empty stats filter must be zero")
	}
	if (StatsFilter{Status: domain.PluginStatusRunning}).IsZero() {
		t.Error("stats filter with status must not be zero")
	}
}

func TestParseObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	parsed, err := parseObjectID(oid.Hex())
	if err != nil {
		t.Fatalf("parseObjectID: %v", err)
	}
	if parsed != oid {
		t.Errorf("roundtrip mismatch: %s != %s", parsed.Hex(), oid.Hex())
	}

	_, err = parseObjectID("not-an-id")
	assertInvalidFilter(t, err)
}
