package models

import "time"

// CollectionSummary is the billed-vs-collected report over a period.
type CollectionSummary struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	InvoiceCount     int       `json:"invoice_count"`
	TotalBilled      float64   `json:"total_billed"`
	TotalCollected   float64   `json:"total_collected"`
	TotalOutstanding float64   `json:"total_outstanding"`
	PaidCount        int       `json:"paid_count"`
	OverdueCount     int       `json:"overdue_count"`
}

// DefaulterRow is one resident in the defaulters report.
type DefaulterRow struct {
	ResidentID       int       `json:"resident_id"`
	ResidentName     string    `json:"resident_name"`
	Phone            string    `json:"phone"`
	UnitNumber       string    `json:"unit_number"`
	OverdueInvoices  int       `json:"overdue_invoices"`
	TotalOutstanding float64   `json:"total_outstanding"`
	OldestDueDate    time.Time `json:"oldest_due_date"`
}

// DashboardStats backs the admin landing page.
type DashboardStats struct {
	ActiveResidents   int     `json:"active_residents"`
	OccupiedUnits     int     `json:"occupied_units"`
	TotalUnits        int     `json:"total_units"`
	PendingInvoices   int     `json:"pending_invoices"`
	OverdueInvoices   int     `json:"overdue_invoices"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	CollectedThisMonth float64 `json:"collected_this_month"`
}
