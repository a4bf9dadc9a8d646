package validate

import (
	"fmt"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

var knownFacets = func() map[string]struct{} {
	m := make(map[string]struct{}, len(domain.SearchFlavourFacets))
	for _, f := range domain.SearchFlavourFacets {
		m[f] = struct{}{}
	}
	return m
}()

// SearchStat validates a databrowser search payload and returns the typed
// record. The record's date is left zero; the service stamps it on insert.
func SearchStat(req *dto.SearchQueryRequest) (*domain.SearchQueryRecord, error) {
	if err := structOnly(req); err != nil {
		return nil, err
	}
	for key, value := range req.Query {
		if _, ok := knownFacets[key]; !ok {
			return nil, apperrors.NewUnprocessable(
				fmt.Sprintf("unknown facet %q", key), "query."+key)
		}
		if value == "" {
			return nil, apperrors.NewUnprocessable(
				fmt.Sprintf("facet %q must not be empty", key), "query."+key)
		}
	}

	return &domain.SearchQueryRecord{
		User:  req.User,
		Query: req.Query,
		Metadata: domain.SearchMetadata{
			NumResults:   *req.Metadata.NumResults,
			Flavour:      req.Metadata.Flavour,
			UniqKey:      domain.UniqKey(req.Metadata.UniqKey),
			ServerStatus: *req.Metadata.ServerStatus,
		},
	}, nil
}

// PluginStat validates a plugin statistic payload and returns the typed
// record.
func PluginStat(req *dto.PluginStatRequest) (*domain.PluginStatRecord, error) {
	if err := structOnly(req); err != nil {
		return nil, err
	}
	if req.FinishedAt != nil && req.FinishedAt.Before(req.StartedAt) {
		return nil, apperrors.NewUnprocessable(
			"finished_at must not precede started_at", "finished_at")
	}

	return &domain.PluginStatRecord{
		PluginName: req.PluginName,
		User:       req.User,
		Status:     domain.PluginStatus(req.Status),
		Version:    req.Version,
		StartedAt:  req.StartedAt.UTC(),
		FinishedAt: req.FinishedAt,
	}, nil
}
