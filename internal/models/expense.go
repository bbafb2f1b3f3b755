package models

import "time"

// Allocation rules for expenses.
const (
	AllocationNone     = "dont_allocate"
	AllocationEqualAll = "allocate_equal_all"
)

// Expense is a society outgoing. Expenses with allocate_equal_all are
// split evenly across invoices during batch generation and then marked
// allocated.
type Expense struct {
	ID             int       `json:"id"`
	SocietyID      int       `json:"society_id"`
	ExpenseDate    time.Time `json:"expense_date"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Amount         float64   `json:"amount"`
	AllocationRule string    `json:"allocation_rule"`
	IsAllocated    bool      `json:"is_allocated"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateExpenseRequest records an expense.
type CreateExpenseRequest struct {
	ExpenseDate    time.Time `json:"expense_date"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Amount         float64   `json:"amount"`
	AllocationRule string    `json:"allocation_rule"`
}

// ExpenseCategoryTotal is one row of the expense breakdown report.
type ExpenseCategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}
