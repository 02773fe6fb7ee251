package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	reqCount    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// metricsStore records call counts and latencies per Store method, labelled by
// whether the call failed.
type metricsStore struct {
	*storeMetrics
	repo Store
}

func NewMetricsStore(repo Store, reg prometheus.Registerer, namespace, subsystem string) Store {
	labels := []string{"method", "error"}

	m := &storeMetrics{
		reqCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_requests_total",
			Help:      "Total number of report store calls",
		}, labels),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_requests_duration",
			Help:      "Duration of report store calls",
			Buckets: []float64{
				0.001, 0.005, 0.01, 0.025,
				0.05, 0.1, 0.25, 0.5, 1, 2, 5,
			},
		}, labels),
	}

	reg.MustRegister(m.reqCount, m.reqDuration)

	return &metricsStore{storeMetrics: m, repo: repo}
}

func (m *storeMetrics) observe(method string, err error, s time.Time) {
	labels := []string{method, strconv.FormatBool(err != nil)}
	m.reqCount.WithLabelValues(labels...).Inc()
	m.reqDuration.WithLabelValues(labels...).Observe(time.Since(s).Seconds())
}

func (m *metricsStore) Transaction(ctx context.Context, fn func(tx Store) error) (err error) {
	defer func(s time.Time) { m.observe("Transaction", err, s) }(time.Now())
	return m.repo.Transaction(ctx, func(tx Store) error {
		return fn(&metricsStore{storeMetrics: m.storeMetrics, repo: tx})
	})
}

func (m *metricsStore) Create(ctx context.Context, report *models.Report) (err error) {
	defer func(s time.Time) { m.observe("Create", err, s) }(time.Now())
	return m.repo.Create(ctx, report)
}

func (m *metricsStore) Save(ctx context.Context, report *models.Report) (err error) {
	defer func(s time.Time) { m.observe("Save", err, s) }(time.Now())
	return m.repo.Save(ctx, report)
}

func (m *metricsStore) FindByID(ctx context.Context, id uuid.UUID) (report *models.Report, err error) {
	defer func(s time.Time) { m.observe("FindByID", err, s) }(time.Now())
	return m.repo.FindByID(ctx, id)
}

func (m *metricsStore) Exists(ctx context.Context, id uuid.UUID) (ok bool, err error) {
	defer func(s time.Time) { m.observe("Exists", err, s) }(time.Now())
	return m.repo.Exists(ctx, id)
}

func (m *metricsStore) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(s time.Time) { m.observe("Delete", err, s) }(time.Now())
	return m.repo.Delete(ctx, id)
}

func (m *metricsStore) FindAll(ctx context.Context) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindAll", err, s) }(time.Now())
	return m.repo.FindAll(ctx)
}

func (m *metricsStore) FindPage(ctx context.Context, page dto.PageRequest) (reports []models.Report, total int64, err error) {
	defer func(s time.Time) { m.observe("FindPage", err, s) }(time.Now())
	return m.repo.FindPage(ctx, page)
}

func (m *metricsStore) SearchByKeyword(ctx context.Context, keyword string) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("SearchByKeyword", err, s) }(time.Now())
	return m.repo.SearchByKeyword(ctx, keyword)
}

func (m *metricsStore) FindByStatus(ctx context.Context, status models.ReportStatus) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindByStatus", err, s) }(time.Now())
	return m.repo.FindByStatus(ctx, status)
}

func (m *metricsStore) FindByCategory(ctx context.Context, category string) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindByCategory", err, s) }(time.Now())
	return m.repo.FindByCategory(ctx, category)
}

func (m *metricsStore) FindByCreatedBetween(ctx context.Context, start, end time.Time) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindByCreatedBetween", err, s) }(time.Now())
	return m.repo.FindByCreatedBetween(ctx, start, end)
}

func (m *metricsStore) FindByLocationRange(ctx context.Context, box dto.BoundingBox) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindByLocationRange", err, s) }(time.Now())
	return m.repo.FindByLocationRange(ctx, box)
}

func (m *metricsStore) FindCreatedSince(ctx context.Context, since time.Time) (reports []models.Report, err error) {
	defer func(s time.Time) { m.observe("FindCreatedSince", err, s) }(time.Now())
	return m.repo.FindCreatedSince(ctx, since)
}

func (m *metricsStore) DistinctCategories(ctx context.Context) (categories []string, err error) {
	defer func(s time.Time) { m.observe("DistinctCategories", err, s) }(time.Now())
	return m.repo.DistinctCategories(ctx)
}

func (m *metricsStore) CountByStatus(ctx context.Context, status models.ReportStatus) (count int64, err error) {
	defer func(s time.Time) { m.observe("CountByStatus", err, s) }(time.Now())
	return m.repo.CountByStatus(ctx, status)
}

func (m *metricsStore) CountGroupedBy(ctx context.Context, field GroupField) (counts map[string]int64, err error) {
	defer func(s time.Time) { m.observe("CountGroupedBy", err, s) }(time.Now())
	return m.repo.CountGroupedBy(ctx, field)
}

func (m *metricsStore) AddStatusChange(ctx context.Context, change *models.ReportStatusChange) (err error) {
	defer func(s time.Time) { m.observe("AddStatusChange", err, s) }(time.Now())
	return m.repo.AddStatusChange(ctx, change)
}

func (m *metricsStore) FindStatusChanges(ctx context.Context, reportID uuid.UUID) (changes []models.ReportStatusChange, err error) {
	defer func(s time.Time) { m.observe("FindStatusChanges", err, s) }(time.Now())
	return m.repo.FindStatusChanges(ctx, reportID)
}
