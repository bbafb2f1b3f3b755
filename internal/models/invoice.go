package models

import "time"

// Batch statuses. Sent and Cancelled are terminal; Cancelled batches are
// deleted together with their draft invoices.
const (
	BatchStatusDraft     = "Draft"
	BatchStatusPending   = "Pending"
	BatchStatusSent      = "Sent"
	BatchStatusCancelled = "Cancelled"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPending   = "pending"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceBatch groups the invoices generated together for one society
// and billing period.
type InvoiceBatch struct {
	ID                int        `json:"id"`
	SocietyID         int        `json:"society_id"`
	PeriodStart       time.Time  `json:"period_start"`
	PeriodEnd         time.Time  `json:"period_end"`
	Status            string     `json:"status"`
	TotalInvoiceCount int        `json:"total_invoice_count"`
	TotalAmount       float64    `json:"total_amount"`
	GeneratedAt       time.Time  `json:"generated_at"`
	FinalizedAt       *time.Time `json:"finalized_at"`
	SentAt            *time.Time `json:"sent_at"`
}

// Invoice is one resident's bill for a period.
type Invoice struct {
	ID            int       `json:"id"`
	SocietyID     int       `json:"society_id"`
	BatchID       *int      `json:"batch_id"`
	ResidentID    int       `json:"resident_id"`
	UnitID        int       `json:"unit_id"`
	InvoiceNumber string    `json:"invoice_number"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	DueDate       time.Time `json:"due_date"`
	TotalAmount   float64   `json:"total_amount"`
	AmountPaid    float64   `json:"amount_paid"`
	BalanceDue    float64   `json:"balance_due"`
	Status        string    `json:"status"`
	PDFURL        string    `json:"pdf_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InvoiceItem is one line on an invoice, optionally linked to the
// recurring charge or expense it came from.
type InvoiceItem struct {
	ID                int       `json:"id"`
	InvoiceID         int       `json:"invoice_id"`
	Description       string    `json:"description"`
	Amount            float64   `json:"amount"`
	RecurringChargeID *int      `json:"recurring_charge_id"`
	ExpenseID         *int      `json:"expense_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// InvoiceWithDetails joins resident and unit names for display and PDF
// rendering.
type InvoiceWithDetails struct {
	Invoice
	ResidentName  string        `json:"resident_name"`
	ResidentPhone string        `json:"resident_phone"`
	UnitNumber    string        `json:"unit_number"`
	WhatsAppOptIn bool          `json:"whatsapp_opt_in"`
	Items         []InvoiceItem `json:"items"`
}

// InvoiceDraft is a planned invoice computed by the generator and
// persisted atomically with its batch.
type InvoiceDraft struct {
	ResidentID int
	UnitID     int
	DueDate    time.Time
	Total      float64
	Items      []InvoiceItem
}

// GenerateBatchRequest asks for invoice generation over a billing
// period.
type GenerateBatchRequest struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// GenerateBatchResult reports what a generation run produced. Warnings
// carry data-quality conditions (e.g. a per-sqft charge skipped because
// the unit has no size on record).
type GenerateBatchResult struct {
	BatchID      int      `json:"batch_id"`
	InvoiceCount int      `json:"invoice_count"`
	TotalAmount  float64  `json:"total_amount"`
	Warnings     []string `json:"warnings,omitempty"`
}

// FinalizeBatchResult reports a Draft→Pending transition.
type FinalizeBatchResult struct {
	UpdatedInvoices int `json:"updated_invoices"`
}

// CancelBatchResult reports a cancelled Draft batch.
type CancelBatchResult struct {
	DeletedInvoices int `json:"deleted_invoices"`
}

// SendFailure explains why one invoice's notification did not go out.
type SendFailure struct {
	InvoiceID int    `json:"invoice_id"`
	Reason    string `json:"reason"`
}

// SendBatchResult aggregates the dispatcher fan-out. Failures include
// invoices that were skipped (no phone, no opt-in, no PDF), each with
// its reason.
type SendBatchResult struct {
	MessagesTriggered int           `json:"messages_triggered"`
	TriggerFailures   int           `json:"trigger_failures"`
	TotalInvoices     int           `json:"total_invoices"`
	Failures          []SendFailure `json:"failures,omitempty"`
}
