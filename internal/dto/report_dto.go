package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/google/uuid"
)

// CreateReportRequest is the body of POST /api/reports. Status is accepted so
// existing clients keep working, but a new report always starts as PENDING.
type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     string   `json:"address"`
	CreatedBy   string   `json:"createdBy"`
	Email       string   `json:"email"`
	Priority    string   `json:"priority"`
	Image       string   `json:"image"`
	Status      string   `json:"status"`
}

type UpdateReportStatusRequest struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
	Comments  string `json:"comments"`
}

// ReportResponse projects every Report field; nothing is redacted.
type ReportResponse struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	Status        models.ReportStatus   `json:"status"`
	StatusLabel   string                `json:"statusLabel"`
	Priority      models.ReportPriority `json:"priority"`
	PriorityLabel string                `json:"priorityLabel"`
	Latitude      *float64              `json:"latitude"`
	Longitude     *float64              `json:"longitude"`
	Address       string                `json:"address"`
	CreatedBy     string                `json:"createdBy"`
	Image         string                `json:"image"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type StatusChangeResponse struct {
	ID         uuid.UUID           `json:"id"`
	ReportID   uuid.UUID           `json:"reportId"`
	FromStatus models.ReportStatus `json:"fromStatus"`
	ToStatus   models.ReportStatus `json:"toStatus"`
	UpdatedBy  string              `json:"updatedBy"`
	Comments   string              `json:"comments"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// PageRequest is a zero-based page of reports ordered by SortBy.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

type ReportPage struct {
	Reports    []ReportResponse `json:"reports"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
}

// BoundingBox is an inclusive latitude/longitude range, not a geodesic radius.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LngMin float64
	LngMax float64
}

type ReportStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByCategory map[string]int64 `json:"byCategory"`
	ByPriority map[string]int64 `json:"byPriority"`
}

type ErrorResponse struct {
	Error   bool         `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

func ToReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Status:        r.Status,
		StatusLabel:   r.Status.DisplayName(),
		Priority:      r.Priority,
		PriorityLabel: r.Priority.DisplayName(),
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Address:       r.Address,
		CreatedBy:     r.CreatedBy,
		Image:         r.Image,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToReportResponses(reports []models.Report) []ReportResponse {
	resp := make([]ReportResponse, len(reports))
	for i := range reports {
		resp[i] = ToReportResponse(&reports[i])
	}
	return resp
}

func ToStatusChangeResponse(c *models.ReportStatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		ID:         c.ID,
		ReportID:   c.ReportID,
		FromStatus: c.FromStatus,
		ToStatus:   c.ToStatus,
		UpdatedBy:  c.UpdatedBy,
		Comments:   c.Comments,
		CreatedAt:  c.CreatedAt,
	}
}
