package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type ReportRepository struct {
	DB *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Dashboard gathers the landing-page counters in one round trip per
// table.
func (r *ReportRepository) Dashboard(ctx context.Context, scope tenant.Scope, monthStart time.Time) (*models.DashboardStats, error) {
	var s models.DashboardStats

	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE occupancy_status = 'occupied'), COUNT(*)
		 FROM units WHERE society_id = $1 AND is_active = TRUE`,
		scope.SocietyID).Scan(&s.OccupiedUnits, &s.TotalUnits)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM residents WHERE society_id = $1 AND is_active = TRUE`,
		scope.SocietyID).Scan(&s.ActiveResidents)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = 'pending'),
		        COUNT(*) FILTER (WHERE status = 'overdue'),
		        COALESCE(SUM(balance_due) FILTER (WHERE status IN ('pending', 'overdue')), 0)
		 FROM invoices WHERE society_id = $1`,
		scope.SocietyID).Scan(&s.PendingInvoices, &s.OverdueInvoices, &s.OutstandingAmount)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments
		 WHERE society_id = $1 AND payment_date >= $2`,
		scope.SocietyID, monthStart).Scan(&s.CollectedThisMonth)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
