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

// SearchStatsService handles databrowser search statistics. Every write
// passes schema validation first; the store is never reached with an
// invalid payload.
type SearchStatsService struct {
	repo       repository.SearchQueryRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewSearchStatsService builds the service.
func NewSearchStatsService(repo repository.SearchQueryRepository, dispatcher events.Dispatcher) *SearchStatsService {
	return &SearchStatsService{repo: repo, dispatcher: dispatcher, now: time.Now}
}

// Add validates and stores a search record, stamping the insert time.
func (s *SearchStatsService) Add(ctx context.Context, actor string, req *dto.SearchQueryRequest) (*domain.SearchQueryRecord, error) {
	record, err := validate.SearchStat(req)
	if err != nil {
		return nil, err
	}
	record.Metadata.Date = s.now().UTC()

	id, err := s.repo.Add(ctx, record)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventSearchStatAdded, actor, id, 1)
	return record, nil
}

// List returns the records matching the filter in insertion order.
func (s *SearchStatsService) List(ctx context.Context, filter repository.SearchFilter) ([]domain.SearchQueryRecord, error) {
	return s.repo.Find(ctx, filter)
}

// Each streams matching records to fn without materializing the result set.
func (s *SearchStatsService) Each(ctx context.Context, filter repository.SearchFilter, fn func(domain.SearchQueryRecord) error) error {
	return s.repo.FindEach(ctx, filter, fn)
}

// Replace validates the payload and swaps the stored record.
func (s *SearchStatsService) Replace(ctx context.Context, actor, id string, req *dto.SearchQueryRequest) (*domain.SearchQueryRecord, error) {
	record, err := validate.SearchStat(req)
	if err != nil {
		return nil, err
	}
	record.Metadata.Date = s.now().UTC()

	if err := s.repo.Replace(ctx, id, record); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventSearchStatReplaced, actor, id, 1)
	return record, nil
}

// DeleteByFilter removes every record matching the filter and reports the
// count. An empty filter is rejected so a stray call cannot wipe the
// collection.
func (s *SearchStatsService) DeleteByFilter(ctx context.Context, actor string, filter repository.SearchFilter) (int64, error) {
	if filter.IsZero() {
		return 0, apperrors.NewInvalidFilter("refusing to delete with an empty filter", nil)
	}
	count, err := s.repo.Delete(ctx, filter)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, events.EventSearchStatDeleted, actor, "", count)
	return count, nil
}

// DeleteByID removes a single record by its id.
func (s *SearchStatsService) DeleteByID(ctx context.Context, actor, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventSearchStatDeleted, actor, id, 1)
	return nil
}

func (s *SearchStatsService) publish(ctx context.Context, eventType events.EventType, actor, recordID string, count int64) {
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
