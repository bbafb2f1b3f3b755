package models

import "time"

// Society is the root tenant scope. Every other record belongs to
// exactly one society.
type Society struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	BankName      string    `json:"bank_name"`
	BankAccount   string    `json:"bank_account"`
	BankIFSC      string    `json:"bank_ifsc"`
	DueDateDays   int       `json:"due_date_days"`
	LateFeePerDay float64   `json:"late_fee_per_day"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateSocietyRequest updates society settings (name, address, banking,
// billing policy).
type UpdateSocietyRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	BankName      string  `json:"bank_name"`
	BankAccount   string  `json:"bank_account"`
	BankIFSC      string  `json:"bank_ifsc"`
	DueDateDays   int     `json:"due_date_days"`
	LateFeePerDay float64 `json:"late_fee_per_day"`
	Timezone      string  `json:"timezone"`
}

// Block is an optional grouping of units (tower, wing).
type Block struct {
	ID        int       `json:"id"`
	SocietyID int       `json:"society_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
