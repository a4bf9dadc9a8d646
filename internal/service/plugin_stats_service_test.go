package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/events"
	"github.com/spec-kit/storage-service/internal/repository"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

type fakePluginRepo struct {
	records []domain.PluginStatRecord
	nextID  int
	calls   int
}

func (f *fakePluginRepo) Add(_ context.Context, record *domain.PluginStatRecord) (string, error) {
	f.calls++
	f.nextID++
	record.ID = fmt.Sprintf("%024d", f.nextID)
	f.records = append(f.records, *record)
	return record.ID, nil
}

func (f *fakePluginRepo) matches(record domain.PluginStatRecord, filter repository.StatsFilter) bool {
	if filter.PluginName != "" && record.PluginName != filter.PluginName {
		return false
	}
	if filter.User != "" && record.User != filter.User {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	return true
}

func (f *fakePluginRepo) Find(ctx context.Context, filter repository.StatsFilter) ([]domain.PluginStatRecord, error) {
	f.calls++
	out := make([]domain.PluginStatRecord, 0)
	for _, record := range f.records {
		if f.matches(record, filter) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakePluginRepo) FindEach(ctx context.Context, filter repository.StatsFilter, fn func(domain.PluginStatRecord) error) error {
	f.calls++
	for _, record := range f.records {
		if f.matches(record, filter) {
			if err := fn(record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakePluginRepo) Replace(_ context.Context, id string, record *domain.PluginStatRecord) error {
	f.calls++
	for i := range f.records {
		if f.records[i].ID == id {
			record.ID = id
			f.records[i] = *record
			return nil
		}
	}
	return apperrors.NewNotFound("plugin stat", map[string]any{"id": id})
}

func (f *fakePluginRepo) Delete(_ context.Context, filter repository.StatsFilter) (int64, error) {
	f.calls++
	kept := f.records[:0]
	var deleted int64
	for _, record := range f.records {
		if f.matches(record, filter) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	f.records = kept
	return deleted, nil
}

func (f *fakePluginRepo) DeleteByID(_ context.Context, id string) error {
	f.calls++
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("plugin stat", map[string]any{"id": id})
}

func pluginRequest(plugin, status string) *dto.PluginStatRequest {
	return &dto.PluginStatRequest{
		PluginName: plugin,
		User:       "jdoe",
		Status:     status,
		StartedAt:  time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestPluginStatsService_AddAndListByStatus(t *testing.T) {
	repo := &fakePluginRepo{}
	svc := NewPluginStatsService(repo, &fakeDispatcher{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "stats", pluginRequest("animator", "running")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "stats", pluginRequest("climdex", "failed")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	failed, err := svc.List(ctx, repository.StatsFilter{Status: domain.PluginStatusFailed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(failed) != 1 || failed[0].PluginName != "climdex" {
		t.Errorf("expected only the failed climdex run, got %+v", failed)
	}
}

func TestPluginStatsService_AddInvalidNeverHitsStore(t *testing.T) {
	repo := &fakePluginRepo{}
	svc := NewPluginStatsService(repo, &fakeDispatcher{})

	if _, err := svc.Add(context.Background(), "stats", pluginRequest("animator", "crashed")); err == nil {
		t.Fatal("expected validation failure")
	}
	if repo.calls != 0 {
		t.Errorf("store must not be touched on invalid payload, saw %d calls", repo.calls)
	}
}

func TestPluginStatsService_ReplaceMovesRunToFinished(t *testing.T) {
	repo := &fakePluginRepo{}
	dispatcher := &fakeDispatcher{}
	svc := NewPluginStatsService(repo, dispatcher)
	ctx := context.Background()

	record, err := svc.Add(ctx, "stats", pluginRequest("animator", "running"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	req := pluginRequest("animator", "finished")
	finished := req.StartedAt.Add(10 * time.Minute)
	req.FinishedAt = &finished
	updated, err := svc.Replace(ctx, "stats", record.ID, req)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if updated.Status != domain.PluginStatusFinished {
		t.Errorf("expected finished status, got %q", updated.Status)
	}

	var sawReplaced bool
	for _, event := range dispatcher.published {
		if event.Type == events.EventPluginStatReplaced {
			sawReplaced = true
		}
	}
	if !sawReplaced {
		t.Error("expected a replaced event")
	}
}

func TestPluginStatsService_DeleteByID(t *testing.T) {
	repo := &fakePluginRepo{}
	svc := NewPluginStatsService(repo, &fakeDispatcher{})
	ctx := context.Background()

	record, err := svc.Add(ctx, "stats", pluginRequest("animator", "running"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.DeleteByID(ctx, "stats", record.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}

	var domainErr *apperrors.DomainError
	err = svc.DeleteByID(ctx, "stats", record.ID)
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}
