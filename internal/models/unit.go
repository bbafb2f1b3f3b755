package models

import "time"

// Occupancy status values for a unit.
const (
	OccupancyVacant   = "vacant"
	OccupancyOccupied = "occupied"
)

// Unit is a flat/apartment within a society, optionally grouped under a
// block.
type Unit struct {
	ID              int       `json:"id"`
	SocietyID       int       `json:"society_id"`
	BlockID         *int      `json:"block_id"`
	UnitNumber      string    `json:"unit_number"`
	SizeSqft        *float64  `json:"size_sqft"`
	OccupancyStatus string    `json:"occupancy_status"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// UnitWithBlock includes the block name for listings.
type UnitWithBlock struct {
	Unit
	BlockName string `json:"block_name"`
}

// CreateUnitRequest creates a unit.
type CreateUnitRequest struct {
	BlockID         *int     `json:"block_id"`
	UnitNumber      string   `json:"unit_number"`
	SizeSqft        *float64 `json:"size_sqft"`
	OccupancyStatus string   `json:"occupancy_status"`
}

// UpdateUnitRequest carries partial updates; nil fields are left unchanged.
type UpdateUnitRequest struct {
	BlockID         *int     `json:"block_id"`
	UnitNumber      *string  `json:"unit_number"`
	SizeSqft        *float64 `json:"size_sqft"`
	OccupancyStatus *string  `json:"occupancy_status"`
}
