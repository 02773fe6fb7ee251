package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/testdb"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

func seed(t *testing.T, repo *ReportRepository, reports ...models.Report) []models.Report {
	t.Helper()
	ctx := context.Background()
	for i := range reports {
		r := &reports[i]
		if r.Status == "" {
			r.Status = models.StatusPending
		}
		if r.Priority == "" {
			r.Priority = models.PriorityMedium
		}
		if r.Description == "" {
			r.Description = "description of " + r.Title
		}
		if r.Category == "" {
			r.Category = "Roads"
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = baseTime.Add(time.Duration(i) * time.Hour)
		}
		r.UpdatedAt = r.CreatedAt
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create %q: %v", r.Title, err)
		}
	}
	return reports
}

func titles(reports []models.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateAssignsIDAndFindByID(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	ctx := context.Background()

	created := seed(t, repo, models.Report{Title: "Broken light", Latitude: ptr(40.1), Longitude: ptr(-73.9)})[0]
	if created.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}

	got, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "Broken light" || got.Status != models.StatusPending {
		t.Errorf("unexpected report %+v", got)
	}
	if got.Latitude == nil || *got.Latitude != 40.1 {
		t.Errorf("expected latitude 40.1, got %v", got.Latitude)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestExistsAndDelete(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	ctx := context.Background()

	r := seed(t, repo, models.Report{Title: "Graffiti"})[0]
	if err := repo.AddStatusChange(ctx, &models.ReportStatusChange{
		ReportID: r.ID, FromStatus: models.StatusPending, ToStatus: models.StatusClosed, CreatedAt: baseTime,
	}); err != nil {
		t.Fatalf("AddStatusChange: %v", err)
	}

	ok, err := repo.Exists(ctx, r.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	if err := repo.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.Exists(ctx, r.ID); ok {
		t.Error("report still exists after delete")
	}
	changes, err := repo.FindStatusChanges(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindStatusChanges: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("expected history to be deleted, got %d rows", len(changes))
	}
}

func TestFindAllNewestFirst(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo, models.Report{Title: "a"}, models.Report{Title: "b"}, models.Report{Title: "c"})

	reports, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if got := titles(reports); !equalStrings(got, []string{"c", "b", "a"}) {
		t.Errorf("FindAll order = %v", got)
	}
}

func TestFindPage(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo,
		models.Report{Title: "r1"}, models.Report{Title: "r2"}, models.Report{Title: "r3"},
		models.Report{Title: "r4"}, models.Report{Title: "r5"},
	)
	ctx := context.Background()

	tests := []struct {
		name string
		page dto.PageRequest
		want []string
	}{
		{"first page desc", dto.PageRequest{Page: 0, Size: 2, SortBy: "createdAt", SortDir: "desc"}, []string{"r5", "r4"}},
		{"last page desc", dto.PageRequest{Page: 2, Size: 2, SortBy: "createdAt", SortDir: "DESC"}, []string{"r1"}},
		{"asc", dto.PageRequest{Page: 0, Size: 3, SortBy: "createdAt", SortDir: "ASC"}, []string{"r1", "r2", "r3"}},
		{"unknown dir means asc", dto.PageRequest{Page: 0, Size: 1, SortBy: "created_at", SortDir: "sideways"}, []string{"r1"}},
		{"by title asc", dto.PageRequest{Page: 1, Size: 2, SortBy: "title", SortDir: "asc"}, []string{"r3", "r4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, total, err := repo.FindPage(ctx, tt.page)
			if err != nil {
				t.Fatalf("FindPage: %v", err)
			}
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			if got := titles(reports); !equalStrings(got, tt.want) {
				t.Errorf("FindPage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindPageUnknownSortField(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo, models.Report{Title: "x"})

	_, _, err := repo.FindPage(context.Background(), dto.PageRequest{Page: 0, Size: 1, SortBy: "nonexistentField"})
	if err == nil {
		t.Fatal("expected error for unknown sort field")
	}
}

func TestSearchByKeyword(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo,
		models.Report{Title: "Pothole on Main", Description: "deep hole"},
		models.Report{Title: "Streetlight out", Description: "dark corner near the POTHOLE"},
		models.Report{Title: "Graffiti", Description: "wall painted 100% over"},
	)
	ctx := context.Background()

	tests := []struct {
		keyword string
		want    int
	}{
		{"pothole", 2},
		{"LIGHT", 1},
		{"", 3},
		{"100%", 1},
		{"%", 1},
		{"missing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			reports, err := repo.SearchByKeyword(ctx, tt.keyword)
			if err != nil {
				t.Fatalf("SearchByKeyword: %v", err)
			}
			if len(reports) != tt.want {
				t.Errorf("SearchByKeyword(%q) returned %d, want %d", tt.keyword, len(reports), tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo,
		models.Report{Title: "a", Category: "Roads", Status: models.StatusPending},
		models.Report{Title: "b", Category: "Lighting", Status: models.StatusResolved},
		models.Report{Title: "c", Category: "Roads", Status: models.StatusResolved},
		models.Report{Title: "d", Category: "Parks", Status: models.StatusClosed, Priority: models.PriorityUrgent},
	)
	ctx := context.Background()

	byStatus, err := repo.FindByStatus(ctx, models.StatusResolved)
	if err != nil {
		t.Fatalf("FindByStatus: %v", err)
	}
	if got := titles(byStatus); !equalStrings(got, []string{"c", "b"}) {
		t.Errorf("FindByStatus = %v", got)
	}

	byCategory, err := repo.FindByCategory(ctx, "Roads")
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	if len(byCategory) != 2 {
		t.Errorf("FindByCategory returned %d, want 2", len(byCategory))
	}
	if none, _ := repo.FindByCategory(ctx, "roads"); len(none) != 0 {
		t.Errorf("category match should be exact, got %d", len(none))
	}

	categories, err := repo.DistinctCategories(ctx)
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}
	if !equalStrings(categories, []string{"Lighting", "Parks", "Roads"}) {
		t.Errorf("DistinctCategories = %v", categories)
	}

	count, err := repo.CountByStatus(ctx, models.StatusResolved)
	if err != nil || count != 2 {
		t.Errorf("CountByStatus = %d, %v", count, err)
	}
	if count, _ := repo.CountByStatus(ctx, models.StatusRejected); count != 0 {
		t.Errorf("CountByStatus(REJECTED) = %d, want 0", count)
	}

	grouped, err := repo.CountGroupedBy(ctx, GroupByCategory)
	if err != nil {
		t.Fatalf("CountGroupedBy: %v", err)
	}
	if grouped["Roads"] != 2 || grouped["Parks"] != 1 {
		t.Errorf("CountGroupedBy(category) = %v", grouped)
	}
	priorities, _ := repo.CountGroupedBy(ctx, GroupByPriority)
	if priorities["URGENT"] != 1 || priorities["MEDIUM"] != 3 {
		t.Errorf("CountGroupedBy(priority) = %v", priorities)
	}
	if _, err := repo.CountGroupedBy(ctx, GroupField("title; DROP TABLE reports")); err == nil {
		t.Error("expected unsupported group field to fail")
	}
}

func TestDateAndLocationRanges(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	seed(t, repo,
		models.Report{Title: "old", CreatedAt: baseTime.AddDate(0, 0, -31), Latitude: ptr(10), Longitude: ptr(10)},
		models.Report{Title: "edge", CreatedAt: baseTime.AddDate(0, 0, -29), Latitude: ptr(10.5), Longitude: ptr(20)},
		models.Report{Title: "new", CreatedAt: baseTime, Latitude: ptr(11), Longitude: ptr(10.5)},
		models.Report{Title: "nowhere", CreatedAt: baseTime.Add(time.Minute)},
	)
	ctx := context.Background()

	recent, err := repo.FindCreatedSince(ctx, baseTime.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("FindCreatedSince: %v", err)
	}
	if got := titles(recent); !equalStrings(got, []string{"nowhere", "new", "edge"}) {
		t.Errorf("FindCreatedSince = %v", got)
	}

	between, err := repo.FindByCreatedBetween(ctx, baseTime.AddDate(0, 0, -31), baseTime)
	if err != nil {
		t.Fatalf("FindByCreatedBetween: %v", err)
	}
	if got := titles(between); !equalStrings(got, []string{"new", "edge", "old"}) {
		t.Errorf("FindByCreatedBetween = %v", got)
	}

	inBox, err := repo.FindByLocationRange(ctx, dto.BoundingBox{LatMin: 10, LatMax: 11, LngMin: 10, LngMax: 10.5})
	if err != nil {
		t.Fatalf("FindByLocationRange: %v", err)
	}
	if got := titles(inBox); !equalStrings(got, []string{"new", "old"}) {
		t.Errorf("FindByLocationRange = %v", got)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	repo := NewReportRepository(testdb.Open(t))
	ctx := context.Background()
	r := seed(t, repo, models.Report{Title: "keep"})[0]

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx Store) error {
		report, err := tx.FindByID(ctx, r.ID)
		if err != nil {
			return err
		}
		report.Status = models.StatusClosed
		if err := tx.Save(ctx, report); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := repo.FindByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want rollback to PENDING", got.Status)
	}
}

func TestMetricsStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := NewMetricsStore(NewReportRepository(testdb.Open(t)), reg, "civic", "test")
	ctx := context.Background()

	if _, err := store.FindAll(ctx); err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if _, err := store.FindByID(ctx, uuid.New()); err == nil {
		t.Fatal("expected not found")
	}
	err := store.Transaction(ctx, func(tx Store) error {
		_, err := tx.CountByStatus(ctx, models.StatusPending)
		return err
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	m := store.(*metricsStore)
	if got := testutil.ToFloat64(m.reqCount.WithLabelValues("FindAll", "false")); got != 1 {
		t.Errorf("FindAll ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.reqCount.WithLabelValues("FindByID", "true")); got != 1 {
		t.Errorf("FindByID error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.reqCount.WithLabelValues("CountByStatus", "false")); got != 1 {
		t.Errorf("CountByStatus inside transaction count = %v, want 1", got)
	}
}
