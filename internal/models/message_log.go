package models

import "time"

// Message delivery statuses.
const (
	MessageStatusSent    = "sent"
	MessageStatusFailed  = "failed"
	MessageStatusSkipped = "skipped"
)

// MessageLog records one delivery attempt to the messaging webhook.
type MessageLog struct {
	ID           int       `json:"id"`
	SocietyID    int       `json:"society_id"`
	InvoiceID    *int      `json:"invoice_id"`
	Phone        string    `json:"phone"`
	Channel      string    `json:"channel"`
	Template     string    `json:"template"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}
