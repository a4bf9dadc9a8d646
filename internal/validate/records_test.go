package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

func intPtr(v int) *int { return &v }

func validSearchRequest() *dto.SearchQueryRequest {
	return &dto.SearchQueryRequest{
		User:  "jdoe",
		Query: map[string]string{"project": "cmip6", "variable": "tas"},
		Metadata: &dto.SearchMetadataRequest{
			NumResults:   intPtr(10),
			Flavour:      "freva",
			UniqKey:      "file",
			ServerStatus: intPtr(200),
		},
	}
}

func violatedField(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Code != "UNPROCESSABLE_ENTITY" {
		t.Fatalf("expected UNPROCESSABLE_ENTITY, got %s", domainErr.Code)
	}
	field, _ := domainErr.Details["field"].(string)
	return field
}

func TestSearchStat_Valid(t *testing.T) {
	record, err := SearchStat(validSearchRequest())
	if err != nil {
		t.Fatalf("SearchStat: %v", err)
	}
	if record.User != "jdoe" {
		t.Errorf("unexpected user %q", record.User)
	}
	if record.Metadata.NumResults != 10 || record.Metadata.UniqKey != domain.UniqKeyFile {
		t.Errorf("unexpected metadata %+v", record.Metadata)
	}
	if !record.Metadata.Date.IsZero() {
		t.Error("date must be stamped by the service, not validation")
	}
}

func TestSearchStat_Violations(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*dto.SearchQueryRequest)
		wantField string
	}{
		{"missing user", func(r *dto.SearchQueryRequest) { r.User = "" }, "user"},
		{"missing query", func(r *dto.SearchQueryRequest) { r.Query = nil }, "query"},
		{"empty query", func(r *dto.SearchQueryRequest) { r.Query = map[string]string{} }, "query"},
		{"missing metadata", func(r *dto.SearchQueryRequest) { r.Metadata = nil }, "metadata"},
		{"missing num_results", func(r *dto.SearchQueryRequest) { r.Metadata.NumResults = nil }, "metadata.num_results"},
		{"negative num_results", func(r *dto.SearchQueryRequest) { r.Metadata.NumResults = intPtr(-1) }, "metadata.num_results"},
		{"missing flavour", func(r *dto.SearchQueryRequest) { r.Metadata.Flavour = "" }, "metadata.flavour"},
		{"bad uniq_key", func(r *dto.SearchQueryRequest) { r.Metadata.UniqKey = "path" }, "metadata.uniq_key"},
		{"missing server_status", func(r *dto.SearchQueryRequest) { r.Metadata.ServerStatus = nil }, "metadata.server_status"},
		{"unknown facet", func(r *dto.SearchQueryRequest) { r.Query["colour"] = "blue" }, "query.colour"},
		{"empty facet value", func(r *dto.SearchQueryRequest) { r.Query["project"] = "" }, "query.project"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSearchRequest()
			tc.mutate(req)
			_, err := SearchStat(req)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if field := violatedField(t, err); field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, field)
			}
		})
	}
}

func validPluginRequest() *dto.PluginStatRequest {
	started := time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)
	return &dto.PluginStatRequest{
		PluginName: "animator",
		User:       "jdoe",
		Status:     "running",
		Version:    "2.1.0",
		StartedAt:  started,
	}
}

func TestPluginStat_Valid(t *testing.T) {
	req := validPluginRequest()
	finished := req.StartedAt.Add(5 * time.Minute)
	req.Status = "finished"
	req.FinishedAt = &finished

	record, err := PluginStat(req)
	if err != nil {
		t.Fatalf("PluginStat: %v", err)
	}
	if record.Status != domain.PluginStatusFinished {
		t.Errorf("unexpected status %q", record.Status)
	}
	if record.FinishedAt == nil || !record.FinishedAt.Equal(finished) {
		t.Errorf("unexpected finished_at %v", record.FinishedAt)
	}
}

func TestPluginStat_Violations(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*dto.PluginStatRequest)
		wantField string
	}{
		{"missing plugin_name", func(r *dto.PluginStatRequest) { r.PluginName = "" }, "plugin_name"},
		{"missing user", func(r *dto.PluginStatRequest) { r.User = "" }, "user"},
		{"unknown status", func(r *dto.PluginStatRequest) { r.Status = "crashed" }, "status"},
		{"missing started_at", func(r *dto.PluginStatRequest) { r.StartedAt = time.Time{} }, "started_at"},
		{
			"finished before started",
			func(r *dto.PluginStatRequest) {
				finished := r.StartedAt.Add(-time.Minute)
				r.FinishedAt = &finished
			},
			"finished_at",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validPluginRequest()
			tc.mutate(req)
			_, err := PluginStat(req)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if field := violatedField(t, err); field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, field)
			}
		})
	}
}
