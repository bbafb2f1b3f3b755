package models

import "time"

// Payment methods accepted for manual recording. Online payments come in
// through the Razorpay webhook with method "online".
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCheque   = "cheque"
	PaymentMethodTransfer = "bank_transfer"
	PaymentMethodUPI      = "upi"
	PaymentMethodOnline   = "online"
)

// Payment is money received against an invoice.
type Payment struct {
	ID               int       `json:"id"`
	SocietyID        int       `json:"society_id"`
	InvoiceID        int       `json:"invoice_id"`
	PaymentDate      time.Time `json:"payment_date"`
	Amount           float64   `json:"amount"`
	Method           string    `json:"method"`
	Reference        string    `json:"reference"`
	Notes            string    `json:"notes"`
	RecordedByUserID int       `json:"recorded_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecordPaymentRequest records a payment against an invoice.
type RecordPaymentRequest struct {
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference"`
	Notes       string    `json:"notes"`
}

// RecordPaymentResult returns the invoice position after the payment.
type RecordPaymentResult struct {
	PaymentID     int     `json:"payment_id"`
	NewBalanceDue float64 `json:"new_balance_due"`
	InvoiceStatus string  `json:"invoice_status"`
}
