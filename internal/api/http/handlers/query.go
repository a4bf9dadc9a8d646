package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/repository"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTimeParam(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewInvalidFilter(
		fmt.Sprintf("could not parse timestamp %q", raw), map[string]any{"param": name})
}

func parseIntParam(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewInvalidFilter(
			fmt.Sprintf("%s must be an integer", name), map[string]any{"param": name})
	}
	return &val, nil
}

// parseSearchFilter builds the record filter from query parameters. Facet
// parameters carry the same names as the stored query keys.
func parseSearchFilter(c *fiber.Ctx) (repository.SearchFilter, error) {
	filter := repository.SearchFilter{
		User:            c.Query("user"),
		Flavour:         c.Query("flavour"),
		UniqKey:         c.Query("uniq_key"),
		ResultsOperator: c.Query("results_operator"),
	}

	facets := make(map[string]string)
	for _, facet := range domain.SearchFlavourFacets {
		if facet == "user" {
			continue // the user parameter selects the record owner
		}
		if value := c.Query(facet); value != "" {
			facets[facet] = value
		}
	}
	if len(facets) > 0 {
		filter.Facets = facets
	}

	var err error
	if filter.ServerStatus, err = parseIntParam(c, "server_status"); err != nil {
		return repository.SearchFilter{}, err
	}
	if filter.NumResults, err = parseIntParam(c, "num_results"); err != nil {
		return repository.SearchFilter{}, err
	}
	if filter.Before, err = parseTimeParam(c, "before"); err != nil {
		return repository.SearchFilter{}, err
	}
	if filter.After, err = parseTimeParam(c, "after"); err != nil {
		return repository.SearchFilter{}, err
	}
	return filter, nil
}

func parseStatsFilter(c *fiber.Ctx) (repository.StatsFilter, error) {
	filter := repository.StatsFilter{
		PluginName: c.Query("plugin_name"),
		User:       c.Query("user"),
		Status:     domain.PluginStatus(c.Query("status")),
	}

	var err error
	if filter.Before, err = parseTimeParam(c, "before"); err != nil {
		return repository.StatsFilter{}, err
	}
	if filter.After, err = parseTimeParam(c, "after"); err != nil {
		return repository.StatsFilter{}, err
	}
	return filter, nil
}
