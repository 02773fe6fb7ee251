package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the data-access contract for reports. Implementations own no
// validation or defaulting.
type Store interface {
	// Transaction runs fn against a Store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Create(ctx context.Context, report *models.Report) error
	Save(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindAll(ctx context.Context) ([]models.Report, error)
	FindPage(ctx context.Context, page dto.PageRequest) ([]models.Report, int64, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]models.Report, error)
	FindByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	FindByCategory(ctx context.Context, category string) ([]models.Report, error)
	FindByCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Report, error)
	FindByLocationRange(ctx context.Context, box dto.BoundingBox) ([]models.Report, error)
	FindCreatedSince(ctx context.Context, since time.Time) ([]models.Report, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	CountGroupedBy(ctx context.Context, field GroupField) (map[string]int64, error)

	AddStatusChange(ctx context.Context, change *models.ReportStatusChange) error
	FindStatusChanges(ctx context.Context, reportID uuid.UUID) ([]models.ReportStatusChange, error)
}

// GroupField is a column reports can be counted by.
type GroupField string

const (
	GroupByStatus   GroupField = "status"
	GroupByCategory GroupField = "category"
	GroupByPriority GroupField = "priority"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReportRepository{db: tx})
	})
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) Save(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// FindByID returns gorm.ErrRecordNotFound when no report has the id.
func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the report and its status history.
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("report_id = ?", id).Delete(&models.ReportStatusChange{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Report{}).Error
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

// FindPage orders by the column GORM derives from page.SortBy ("createdAt"
// becomes created_at). Unknown columns are passed through quoted and fail in
// the database.
func (r *ReportRepository) FindPage(ctx context.Context, page dto.PageRequest) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := clause.OrderByColumn{
		Column: clause.Column{Name: r.db.NamingStrategy.ColumnName("", page.SortBy)},
		Desc:   strings.EqualFold(page.SortDir, "desc"),
	}
	err := r.db.WithContext(ctx).
		Order(order).
		Limit(page.Size).
		Offset(page.Page * page.Size).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// SearchByKeyword matches title or description case-insensitively. LIKE
// wildcards in the keyword are matched literally.
func (r *ReportRepository) SearchByKeyword(ctx context.Context, keyword string) ([]models.Report, error) {
	var reports []models.Report
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	err := r.db.WithContext(ctx).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) FindByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) FindByCategory(ctx context.Context, category string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) FindByCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start.UTC(), end.UTC()).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) FindByLocationRange(ctx context.Context, box dto.BoundingBox) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?", box.LatMin, box.LatMax, box.LngMin, box.LngMax).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) FindCreatedSince(ctx context.Context, since time.Time) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Where("created_at >= ?", since.UTC()).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *ReportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *ReportRepository) CountGroupedBy(ctx context.Context, field GroupField) (map[string]int64, error) {
	switch field {
	case GroupByStatus, GroupByCategory, GroupByPriority:
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}

	var rows []struct {
		Value string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select(string(field) + " AS value, COUNT(*) AS total").
		Group(string(field)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Total
	}
	return counts, nil
}

func (r *ReportRepository) AddStatusChange(ctx context.Context, change *models.ReportStatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *ReportRepository) FindStatusChanges(ctx context.Context, reportID uuid.UUID) ([]models.ReportStatusChange, error) {
	var changes []models.ReportStatusChange
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("created_at ASC").Find(&changes).Error
	return changes, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
