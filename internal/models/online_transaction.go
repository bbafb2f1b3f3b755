package models

import "time"

// Online transaction statuses.
const (
	OnlineTxStatusCreated  = "created"
	OnlineTxStatusCaptured = "captured"
	OnlineTxStatusFailed   = "failed"
)

// OnlineTransaction tracks a Razorpay order raised against an invoice's
// open balance. One captured transaction produces one Payment.
type OnlineTransaction struct {
	ID                int       `json:"id"`
	SocietyID         int       `json:"society_id"`
	InvoiceID         int       `json:"invoice_id"`
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	Amount            float64   `json:"amount"`
	Status            string    `json:"status"`
	ErrorMessage      string    `json:"error_message"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateOrderResponse is returned to the frontend to open the checkout.
type CreateOrderResponse struct {
	OrderID     string  `json:"order_id"`
	AmountPaise int     `json:"amount"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	InvoiceID   int     `json:"invoice_id"`
	BalanceDue  float64 `json:"balance_due"`
}
