package models

import "time"

// LedgerEntry is one row of a resident's chronological charge/payment
// history. Exactly one of Charge or Payment is non-nil.
type LedgerEntry struct {
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Charge         *float64  `json:"charge"`
	Payment        *float64  `json:"payment"`
	RunningBalance float64   `json:"running_balance"`
}

// ResidentLedger is the computed ledger for a resident over a date
// range. OpeningBalance reflects all activity strictly before From.
type ResidentLedger struct {
	ResidentID     int           `json:"resident_id"`
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	OpeningBalance float64       `json:"opening_balance"`
	Entries        []LedgerEntry `json:"entries"`
	ClosingBalance float64       `json:"closing_balance"`
}
