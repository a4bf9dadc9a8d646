package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/auth"
	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/repository"
	"github.com/spec-kit/storage-service/internal/service"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// SearchesHandler manages databrowser search statistic endpoints.
type SearchesHandler struct {
	service *service.SearchStatsService
}

// NewSearchesHandler constructs handler.
func NewSearchesHandler(searchService *service.SearchStatsService) *SearchesHandler {
	return &SearchesHandler{service: searchService}
}

// Add POST /searches.
func (h *SearchesHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SearchQueryRequest
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

// List GET /searches. With format=csv the result set is rendered as CSV.
func (h *SearchesHandler) List(c *fiber.Ctx) error {
	filter, err := parseSearchFilter(c)
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

func (h *SearchesHandler) listCSV(c *fiber.Ctx, filter repository.SearchFilter) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "user", "num_results", "flavour", "uniq_key", "server_status", "date"}
	header = append(header, domain.SearchFlavourFacets...)
	if err := writer.Write(header); err != nil {
		return apperrors.NewInternalError(err)
	}

	err := h.service.Each(c.Context(), filter, func(rec domain.SearchQueryRecord) error {
		row := []string{
			rec.ID,
			rec.User,
			strconv.Itoa(rec.Metadata.NumResults),
			rec.Metadata.Flavour,
			string(rec.Metadata.UniqKey),
			strconv.Itoa(rec.Metadata.ServerStatus),
			rec.Metadata.Date.Format(time.RFC3339),
		}
		for _, facet := range domain.SearchFlavourFacets {
			row = append(row, rec.Query[facet])
		}
		return writer.Write(row)
	})
	if err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=databrowser.csv")
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
	return c.Send(buf.Bytes())
}

// Replace PUT /searches/:id.
func (h *SearchesHandler) Replace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SearchQueryRequest
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

// DeleteByFilter DELETE /searches.
func (h *SearchesHandler) DeleteByFilter(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseSearchFilter(c)
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

// DeleteByID DELETE /searches/:id.
func (h *SearchesHandler) DeleteByID(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteByID(c.Context(), principal.Subject, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
