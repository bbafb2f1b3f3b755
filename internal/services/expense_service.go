package services

import (
	"context"
	"time"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type expenseStore interface {
	Create(ctx context.Context, scope tenant.Scope, req *models.CreateExpenseRequest) (*models.Expense, error)
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Expense, error)
	List(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]*models.Expense, error)
	Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateExpenseRequest) error
	Delete(ctx context.Context, scope tenant.Scope, id int) error
}

// ExpenseService manages the expense book. Allocated expenses are
// frozen: they back invoice line items already issued.
type ExpenseService struct {
	expenses expenseStore
}

func NewExpenseService(expenses expenseStore) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

func validateExpense(req *models.CreateExpenseRequest) error {
	if req.ExpenseDate.IsZero() {
		return apperrors.Validation("expense_date is required")
	}
	if req.Category == "" {
		return apperrors.Validation("category is required")
	}
	if req.Amount <= 0 {
		return apperrors.Validation("amount must be positive")
	}
	switch req.AllocationRule {
	case "":
		req.AllocationRule = models.AllocationNone
	case models.AllocationNone, models.AllocationEqualAll:
	default:
		return apperrors.Validation("unknown allocation rule %q", req.AllocationRule)
	}
	return nil
}

func (s *ExpenseService) Create(ctx context.Context, scope tenant.Scope, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if err := validateExpense(req); err != nil {
		return nil, err
	}
	return s.expenses.Create(ctx, scope, req)
}

func (s *ExpenseService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Expense, error) {
	return s.expenses.Get(ctx, scope, id)
}

func (s *ExpenseService) List(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]*models.Expense, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.expenses.List(ctx, scope, from, to)
}

func (s *ExpenseService) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateExpenseRequest) error {
	if err := validateExpense(req); err != nil {
		return err
	}
	return s.expenses.Update(ctx, scope, id, req)
}

func (s *ExpenseService) Delete(ctx context.Context, scope tenant.Scope, id int) error {
	return s.expenses.Delete(ctx, scope, id)
}
