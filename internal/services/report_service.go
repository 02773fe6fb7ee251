package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecentWindow bounds ListRecent.
const RecentWindow = 30 * 24 * time.Hour

type ReportService struct {
	store repository.Store
	now   func() time.Time
}

func NewReportService(store repository.Store) *ReportService {
	return &ReportService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateReport validates the request and persists a new PENDING report.
// A caller-supplied status is ignored; a missing priority becomes MEDIUM.
func (s *ReportService) CreateReport(ctx context.Context, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority, _ = models.ParseReportPriority(req.Priority)
	}

	now := s.now()
	report := models.Report{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.StatusPending,
		Priority:    priority,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		CreatedBy:   req.CreatedBy,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Create(ctx, &report)
	})
	if err != nil {
		return nil, s.storeError("create report", err)
	}

	slog.Info("report created", "report_id", report.ID.String(), "category", report.Category)
	resp := dto.ToReportResponse(&report)
	return &resp, nil
}

// ListReports returns every report, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]dto.ReportResponse, error) {
	reports, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, s.storeError("list reports", err)
	}
	return dto.ToReportResponses(reports), nil
}

// ListReportsPage returns one zero-based page. SortDir is case-insensitive and
// anything other than "desc" sorts ascending.
func (s *ReportService) ListReportsPage(ctx context.Context, page dto.PageRequest) (*dto.ReportPage, error) {
	if err := newValidationError(page.Validate()); err != nil {
		return nil, err
	}

	reports, total, err := s.store.FindPage(ctx, page)
	if err != nil {
		return nil, s.storeError("list reports page", err)
	}

	return &dto.ReportPage{
		Reports:    dto.ToReportResponses(reports),
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(page.Size))),
	}, nil
}

func (s *ReportService) GetReportByID(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	report, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError("get report", id, err)
	}
	resp := dto.ToReportResponse(report)
	return &resp, nil
}

// UpdateStatus overwrites the status unconditionally (any status may move to
// any other, including itself) and records the change with its comments.
func (s *ReportService) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateReportStatusRequest) (*dto.ReportResponse, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}
	status, _ := models.ParseReportStatus(req.Status)

	var updated *models.Report
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		report, err := tx.FindByID(ctx, id)
		if err != nil {
			return s.lookupError("update status", id, err)
		}

		previous := report.Status
		report.Status = status
		if err := tx.Save(ctx, report); err != nil {
			return s.storeError("update status", err)
		}

		change := &models.ReportStatusChange{
			ReportID:   id,
			FromStatus: previous,
			ToStatus:   status,
			UpdatedBy:  req.UpdatedBy,
			Comments:   req.Comments,
			CreatedAt:  s.now(),
		}
		if err := tx.AddStatusChange(ctx, change); err != nil {
			return s.storeError("record status change", err)
		}

		updated = report
		return nil
	})
	if err != nil {
		return nil, s.classify("update status", err)
	}

	slog.Info("report status updated", "report_id", id.String(), "status", string(status))
	resp := dto.ToReportResponse(updated)
	return &resp, nil
}

// DeleteReport permanently removes the report and its status history.
func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Exists(ctx, id)
		if err != nil {
			return s.storeError("delete report", err)
		}
		if !exists {
			return notFound(id)
		}
		if err := tx.Delete(ctx, id); err != nil {
			return s.storeError("delete report", err)
		}
		return nil
	})
	if err != nil {
		return s.classify("delete report", err)
	}

	slog.Info("report deleted", "report_id", id.String())
	return nil
}

// SearchReports matches keyword against title or description, ignoring case.
// An empty keyword matches every report.
func (s *ReportService) SearchReports(ctx context.Context, keyword string) ([]dto.ReportResponse, error) {
	reports, err := s.store.SearchByKeyword(ctx, keyword)
	if err != nil {
		return nil, s.storeError("search reports", err)
	}
	return dto.ToReportResponses(reports), nil
}

func (s *ReportService) ListByStatus(ctx context.Context, status models.ReportStatus) ([]dto.ReportResponse, error) {
	reports, err := s.store.FindByStatus(ctx, status)
	if err != nil {
		return nil, s.storeError("list by status", err)
	}
	return dto.ToReportResponses(reports), nil
}

func (s *ReportService) ListByCategory(ctx context.Context, category string) ([]dto.ReportResponse, error) {
	reports, err := s.store.FindByCategory(ctx, category)
	if err != nil {
		return nil, s.storeError("list by category", err)
	}
	return dto.ToReportResponses(reports), nil
}

func (s *ReportService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.DistinctCategories(ctx)
	if err != nil {
		return nil, s.storeError("list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// ListRecent returns reports created within RecentWindow of now, newest first.
func (s *ReportService) ListRecent(ctx context.Context) ([]dto.ReportResponse, error) {
	reports, err := s.store.FindCreatedSince(ctx, s.now().Add(-RecentWindow))
	if err != nil {
		return nil, s.storeError("list recent", err)
	}
	return dto.ToReportResponses(reports), nil
}

func (s *ReportService) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	count, err := s.store.CountByStatus(ctx, status)
	if err != nil {
		return 0, s.storeError("count by status", err)
	}
	return count, nil
}

// ListByDateRange returns reports created in [start, end].
func (s *ReportService) ListByDateRange(ctx context.Context, start, end time.Time) ([]dto.ReportResponse, error) {
	if start.After(end) {
		return nil, &ValidationError{Fields: []dto.FieldError{{Field: "start", Message: "start must not be after end"}}}
	}
	reports, err := s.store.FindByCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, s.storeError("list by date range", err)
	}
	return dto.ToReportResponses(reports), nil
}

// ListByLocation applies an inclusive bounding box; reports without
// coordinates never match.
func (s *ReportService) ListByLocation(ctx context.Context, box dto.BoundingBox) ([]dto.ReportResponse, error) {
	if err := newValidationError(box.Validate()); err != nil {
		return nil, err
	}
	reports, err := s.store.FindByLocationRange(ctx, box)
	if err != nil {
		return nil, s.storeError("list by location", err)
	}
	return dto.ToReportResponses(reports), nil
}

// StatusHistory returns the recorded status changes of a report, oldest first.
func (s *ReportService) StatusHistory(ctx context.Context, id uuid.UUID) ([]dto.StatusChangeResponse, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, s.storeError("status history", err)
	}
	if !exists {
		return nil, notFound(id)
	}

	changes, err := s.store.FindStatusChanges(ctx, id)
	if err != nil {
		return nil, s.storeError("status history", err)
	}

	resp := make([]dto.StatusChangeResponse, len(changes))
	for i := range changes {
		resp[i] = dto.ToStatusChangeResponse(&changes[i])
	}
	return resp, nil
}

// Stats counts reports by status, category and priority. Every status and
// priority appears, zero when unused.
func (s *ReportService) Stats(ctx context.Context) (*dto.ReportStats, error) {
	byStatus, err := s.store.CountGroupedBy(ctx, repository.GroupByStatus)
	if err != nil {
		return nil, s.storeError("stats", err)
	}
	byCategory, err := s.store.CountGroupedBy(ctx, repository.GroupByCategory)
	if err != nil {
		return nil, s.storeError("stats", err)
	}
	byPriority, err := s.store.CountGroupedBy(ctx, repository.GroupByPriority)
	if err != nil {
		return nil, s.storeError("stats", err)
	}

	stats := &dto.ReportStats{
		ByStatus:   make(map[string]int64, len(models.ReportStatuses)),
		ByCategory: byCategory,
		ByPriority: make(map[string]int64, len(models.ReportPriorities)),
	}
	for _, st := range models.ReportStatuses {
		stats.ByStatus[string(st)] = byStatus[string(st)]
		stats.Total += byStatus[string(st)]
	}
	for _, p := range models.ReportPriorities {
		stats.ByPriority[string(p)] = byPriority[string(p)]
	}
	return stats, nil
}

var csvHeader = []string{
	"id", "title", "description", "category", "status", "priority",
	"latitude", "longitude", "address", "createdBy", "createdAt", "updatedAt",
}

// ExportCSV renders every report, newest first, as CSV. Images are omitted.
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, error) {
	reports, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, s.storeError("export csv", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range reports {
		record := []string{
			r.ID.String(),
			r.Title,
			r.Description,
			r.Category,
			string(r.Status),
			string(r.Priority),
			formatCoordinate(r.Latitude),
			formatCoordinate(r.Longitude),
			r.Address,
			r.CreatedBy,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("%w with id: %s", ErrReportNotFound, id)
}

func (s *ReportService) lookupError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(id)
	}
	return s.storeError(op, err)
}

func (s *ReportService) storeError(op string, err error) error {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	slog.Error("report store failure", "action", op, "error", err)
	return &StoreError{Op: op, Err: err}
}

// classify passes typed errors from a transaction through and wraps anything
// else (commit failures) as a StoreError.
func (s *ReportService) classify(op string, err error) error {
	var validationErr *ValidationError
	var storeErr *StoreError
	if errors.Is(err, ErrReportNotFound) || errors.As(err, &validationErr) || errors.As(err, &storeErr) {
		return err
	}
	return s.storeError(op, err)
}
