package models

import "time"

// Calculation types for recurring charges.
const (
	ChargeFixedPerUnit = "fixed_per_unit"
	ChargePerSqft      = "per_sqft"
)

// RecurringCharge defines a periodic per-unit fee, either flat or
// area-based (rate per square foot).
type RecurringCharge struct {
	ID           int       `json:"id"`
	SocietyID    int       `json:"society_id"`
	Name         string    `json:"name"`
	CalcType     string    `json:"calculation_type"`
	AmountOrRate float64   `json:"amount_or_rate"`
	Frequency    string    `json:"frequency"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRecurringChargeRequest creates or updates a charge definition.
type CreateRecurringChargeRequest struct {
	Name         string  `json:"name"`
	CalcType     string  `json:"calculation_type"`
	AmountOrRate float64 `json:"amount_or_rate"`
	Frequency    string  `json:"frequency"`
	IsActive     *bool   `json:"is_active"`
}
