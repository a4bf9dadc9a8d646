package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/events"
	"github.com/spec-kit/storage-service/internal/repository"
	"github.com/spec-kit/storage-service/internal/validate"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// PluginStatsService handles plugin execution statistics.
type PluginStatsService struct {
	repo       repository.PluginStatsRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewPluginStatsService builds the service.
func NewPluginStatsService(repo repository.PluginStatsRepository, dispatcher events.Dispatcher) *PluginStatsService {
	return &PluginStatsService{repo: repo, dispatcher: dispatcher, now: time.Now}
}

// Add validates and stores a plugin stat, stamping the insert time.
func (s *PluginStatsService) Add(ctx context.Context, actor string, req *dto.PluginStatRequest) (*domain.PluginStatRecord, error) {
	record, err := validate.PluginStat(req)
	if err != nil {
		return nil, err
	}
	record.Date = s.now().UTC()

	id, err := s.repo.Add(ctx, record)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventPluginStatAdded, actor, id, 1)
	return record, nil
}

// List returns the records matching the filter in insertion order.
func (s *PluginStatsService) List(ctx context.Context, filter repository.StatsFilter) ([]domain.PluginStatRecord, error) {
	return s.repo.Find(ctx, filter)
}

// Each streams matching records to fn without materializing the result set.
func (s *PluginStatsService) Each(ctx context.Context, filter repository.StatsFilter, fn func(domain.PluginStatRecord) error) error {
	return s.repo.FindEach(ctx, filter, fn)
}

// Replace validates the payload and swaps the stored record. Used to move
// a plugin run from running to finished or failed.
func (s *PluginStatsService) Replace(ctx context.Context, actor, id string, req *dto.PluginStatRequest) (*domain.PluginStatRecord, error) {
	record, err := validate.PluginStat(req)
	if err != nil {
		return nil, err
	}
	record.Date = s.now().UTC()

	if err := s.repo.Replace(ctx, id, record); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventPluginStatReplaced, actor, id, 1)
	return record, nil
}

// DeleteByFilter removes every record matching the filter and reports the
// count. Empty filters are rejected.
func (s *PluginStatsService) DeleteByFilter(ctx context.Context, actor string, filter repository.StatsFilter) (int64, error) {
	if filter.IsZero() {
		return 0, apperrors.NewInvalidFilter("refusing to delete with an empty filter", nil)
	}
	count, err := s.repo.Delete(ctx, filter)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, events.EventPluginStatDeleted, actor, "", count)
	return count, nil
}

// DeleteByID removes a single record by its id.
func (s *PluginStatsService) DeleteByID(ctx context.Context, actor, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventPluginStatDeleted, actor, id, 1)
	return nil
}

func (s *PluginStatsService) publish(ctx context.Context, eventType events.EventType, actor, recordID string, count int64) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		RecordID:  recordID,
		Count:     count,
		Timestamp: s.now().UTC(),
	})
}
