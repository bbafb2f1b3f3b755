package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type collectionStore interface {
	CollectionSummary(ctx context.Context, scope tenant.Scope, from, to time.Time) (*models.CollectionSummary, error)
	Defaulters(ctx context.Context, scope tenant.Scope) ([]models.DefaulterRow, error)
}

type expenseBreakdownStore interface {
	CategoryTotals(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]models.ExpenseCategoryTotal, error)
}

type dashboardStore interface {
	Dashboard(ctx context.Context, scope tenant.Scope, monthStart time.Time) (*models.DashboardStats, error)
}

// ReportService computes the read-only reports. Results are cached in
// Redis keyed by society and report parameters; payment recording
// invalidates the society's keys.
type ReportService struct {
	collections collectionStore
	expenses    expenseBreakdownStore
	dashboards  dashboardStore
}

func NewReportService(collections collectionStore, expenses expenseBreakdownStore, dashboards dashboardStore) *ReportService {
	return &ReportService{collections: collections, expenses: expenses, dashboards: dashboards}
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperrors.Validation("from and to dates are required")
	}
	if to.Before(from) {
		return apperrors.Validation("to date is before from date")
	}
	return nil
}

func (s *ReportService) CollectionSummary(ctx context.Context, scope tenant.Scope, from, to time.Time) (*models.CollectionSummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("report:collection:%s:%s",
		from.Format(timeutil.DateLayout), to.Format(timeutil.DateLayout))
	if data, ok := cache.GetCachedReport(ctx, scope.SocietyID, cacheKey); ok {
		var summary models.CollectionSummary
		if json.Unmarshal(data, &summary) == nil {
			return &summary, nil
		}
	}

	summary, err := s.collections.CollectionSummary(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(summary); err == nil {
		cache.CacheReport(ctx, scope.SocietyID, cacheKey, data)
	}
	return summary, nil
}

func (s *ReportService) ExpenseBreakdown(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]models.ExpenseCategoryTotal, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.expenses.CategoryTotals(ctx, scope, from, to)
}

func (s *ReportService) Defaulters(ctx context.Context, scope tenant.Scope) ([]models.DefaulterRow, error) {
	return s.collections.Defaulters(ctx, scope)
}

func (s *ReportService) Dashboard(ctx context.Context, scope tenant.Scope) (*models.DashboardStats, error) {
	if data, ok := cache.GetCachedDashboard(ctx, scope.SocietyID); ok {
		var stats models.DashboardStats
		if json.Unmarshal(data, &stats) == nil {
			return &stats, nil
		}
	}

	now := timeutil.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats, err := s.dashboards.Dashboard(ctx, scope, monthStart)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(stats); err == nil {
		cache.CacheDashboard(ctx, scope.SocietyID, data)
	}
	return stats, nil
}

// DefaultersCSV exports the defaulters report for spreadsheets.
func (s *ReportService) DefaultersCSV(ctx context.Context, scope tenant.Scope) ([]byte, error) {
	defaulters, err := s.collections.Defaulters(ctx, scope)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Resident", "Unit", "Phone", "Overdue Invoices", "Outstanding", "Oldest Due Date"})
	for _, d := range defaulters {
		w.Write([]string{
			d.ResidentName,
			d.UnitNumber,
			d.Phone,
			strconv.Itoa(d.OverdueInvoices),
			fmt.Sprintf("%.2f", d.TotalOutstanding),
			d.OldestDueDate.Format(timeutil.DateLayout),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CollectionSummaryPDF renders the collection report as a printable
// one-pager.
func (s *ReportService) CollectionSummaryPDF(ctx context.Context, scope tenant.Scope, society *models.Society, from, to time.Time) ([]byte, error) {
	summary, err := s.CollectionSummary(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, society.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Collection Summary: %s to %s",
		from.Format(timeutil.DisplayLayout), to.Format(timeutil.DisplayLayout)))
	pdf.Ln(12)

	row := func(label string, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(90, 8, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 8, value, "1", 1, "R", false, 0, "")
	}
	row("Invoices", strconv.Itoa(summary.InvoiceCount))
	row("Total Billed (Rs.)", fmt.Sprintf("%.2f", summary.TotalBilled))
	row("Total Collected (Rs.)", fmt.Sprintf("%.2f", summary.TotalCollected))
	row("Outstanding (Rs.)", fmt.Sprintf("%.2f", summary.TotalOutstanding))
	row("Fully Paid", strconv.Itoa(summary.PaidCount))
	row("Overdue", strconv.Itoa(summary.OverdueCount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Render(err, "rendering collection summary")
	}
	return buf.Bytes(), nil
}
