package models

import "time"

// Resident is a person billed for a unit. Residents with billing history
// are deactivated, never deleted.
type Resident struct {
	ID            int        `json:"id"`
	SocietyID     int        `json:"society_id"`
	PrimaryUnitID *int       `json:"primary_unit_id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	IsActive      bool       `json:"is_active"`
	MoveInDate    *time.Time `json:"move_in_date"`
	MoveOutDate   *time.Time `json:"move_out_date"`
	WhatsAppOptIn bool       `json:"whatsapp_opt_in"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ResidentWithUnit includes the primary unit for billing and listings.
type ResidentWithUnit struct {
	Resident
	UnitNumber string   `json:"unit_number"`
	SizeSqft   *float64 `json:"size_sqft"`
}

// CreateResidentRequest creates or updates a resident.
type CreateResidentRequest struct {
	PrimaryUnitID *int       `json:"primary_unit_id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	MoveInDate    *time.Time `json:"move_in_date"`
	MoveOutDate   *time.Time `json:"move_out_date"`
	WhatsAppOptIn bool       `json:"whatsapp_opt_in"`
}
