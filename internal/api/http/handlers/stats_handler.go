package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/auth"
	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/repository"
	"github.com/spec-kit/storage-service/internal/service"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// StatsHandler manages plugin execution statistic endpoints.
type StatsHandler struct {
	service *service.PluginStatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.PluginStatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Add POST /stats.
func (h *StatsHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PluginStatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnprocessable("invalid payload", "")
	}
	record, err := h.service.Add(c.Context(), principal.Subject, &req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.RecordCreatedResponse{
		Status: "Data created successfully",
		ID:     record.ID,
	}})
}

// List GET /stats. With format=csv the result set is rendered as CSV.
func (h *StatsHandler) List(c *fiber.Ctx) error {
	filter, err := parseStatsFilter(c)
	if err != nil {
		return err
	}
	if c.Query("format") == "csv" {
		return h.listCSV(c, filter)
	}
	records, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": records})
}

func (h *StatsHandler) listCSV(c *fiber.Ctx, filter repository.StatsFilter) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "plugin_name", "user", "status", "version", "started_at", "finished_at", "date"}
	if err := writer.Write(header); err != nil {
		return apperrors.NewInternalError(err)
	}

	err := h.service.Each(c.Context(), filter, func(rec domain.PluginStatRecord) error {
		finished := ""
		if rec.FinishedAt != nil {
			finished = rec.FinishedAt.Format(time.RFC3339)
		}
		return writer.Write([]string{
			rec.ID,
			rec.PluginName,
			rec.User,
			string(rec.Status),
			rec.Version,
			rec.StartedAt.Format(time.RFC3339),
			finished,
			rec.Date.Format(time.RFC3339),
		})
	})
	if err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=plugin-stats.csv")
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
	return c.Send(buf.Bytes())
}

// Replace PUT /stats/:id.
func (h *StatsHandler) Replace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PluginStatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnprocessable("invalid payload", "")
	}
	record, err := h.service.Replace(c.Context(), principal.Subject, c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RecordCreatedResponse{
		Status: "Data updated successfully",
		ID:     record.ID,
	}})
}

// DeleteByFilter DELETE /stats.
func (h *StatsHandler) DeleteByFilter(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseStatsFilter(c)
	if err != nil {
		return err
	}
	count, err := h.service.DeleteByFilter(c.Context(), principal.Subject, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeletedResponse{
		Status:  "Data deleted successfully",
		Deleted: count,
	}})
}

// DeleteByID DELETE /stats/:id.
func (h *StatsHandler) DeleteByID(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteByID(c.Context(), principal.Subject, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
