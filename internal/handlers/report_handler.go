package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.CreateReport(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports returns every report unless both page and size are given, in
// which case it returns that page and sets X-Total-Count / X-Total-Pages.
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	pageParam, sizeParam := c.Query("page"), c.Query("size")
	if pageParam == "" || sizeParam == "" {
		reports, err := h.reportService.ListReports(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(reports)
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil {
		return invalidField(c, "page", "Page must be an integer")
	}
	size, err := strconv.Atoi(sizeParam)
	if err != nil {
		return invalidField(c, "size", "Size must be an integer")
	}

	result, err := h.reportService.ListReportsPage(c.UserContext(), dto.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  c.Query("sortBy", "createdAt"),
		SortDir: c.Query("sortDir", "desc"),
	})
	if err != nil {
		return respondError(c, err)
	}

	c.Set("X-Total-Count", strconv.FormatInt(result.TotalCount, 10))
	c.Set("X-Total-Pages", strconv.Itoa(result.TotalPages))
	return c.JSON(result.Reports)
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.GetReportByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.reportService.DeleteReport(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReportHandler) StatusHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	history, err := h.reportService.StatusHistory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(history)
}

// SearchReports treats a missing keyword as empty and returns everything.
func (h *ReportHandler) SearchReports(c *fiber.Ctx) error {
	reports, err := h.reportService.SearchReports(c.UserContext(), c.Query("keyword"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) ListByStatus(c *fiber.Ctx) error {
	status, ok := models.ParseReportStatus(c.Params("status"))
	if !ok {
		return invalidField(c, "status", "Unknown status "+c.Params("status"))
	}

	reports, err := h.reportService.ListByStatus(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) ListByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return badRequest(c, "Invalid category")
	}

	reports, err := h.reportService.ListByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.reportService.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *ReportHandler) ListRecent(c *fiber.Ctx) error {
	reports, err := h.reportService.ListRecent(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) CountByStatus(c *fiber.Ctx) error {
	status, ok := models.ParseReportStatus(c.Params("status"))
	if !ok {
		return invalidField(c, "status", "Unknown status "+c.Params("status"))
	}

	count, err := h.reportService.CountByStatus(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(count)
}

func (h *ReportHandler) ListByLocation(c *fiber.Ctx) error {
	var box dto.BoundingBox
	bounds := []struct {
		name string
		dst  *float64
	}{
		{"latMin", &box.LatMin},
		{"latMax", &box.LatMax},
		{"lngMin", &box.LngMin},
		{"lngMax", &box.LngMax},
	}
	for _, b := range bounds {
		v, err := strconv.ParseFloat(c.Query(b.name), 64)
		if err != nil {
			return invalidField(c, b.name, b.name+" must be a number")
		}
		*b.dst = v
	}

	reports, err := h.reportService.ListByLocation(c.UserContext(), box)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) ListByDateRange(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return invalidField(c, "start", "start must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return invalidField(c, "end", "end must be an RFC3339 timestamp")
	}

	reports, err := h.reportService.ListByDateRange(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reportService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	data, err := h.reportService.ExportCSV(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reports.csv"`)
	return c.Send(data)
}
