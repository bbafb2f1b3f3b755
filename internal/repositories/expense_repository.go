package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

const expenseColumns = `id, society_id, expense_date, category, description, amount,
	allocation_rule, is_allocated, created_at`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.SocietyID, &e.ExpenseDate, &e.Category, &e.Description,
		&e.Amount, &e.AllocationRule, &e.IsAllocated, &e.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("expense not found")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, scope tenant.Scope, req *models.CreateExpenseRequest) (*models.Expense, error) {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO expenses(society_id, expense_date, category, description, amount, allocation_rule)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING `+expenseColumns,
		scope.SocietyID, req.ExpenseDate, req.Category, req.Description, req.Amount, req.AllocationRule)
	return scanExpense(row)
}

func (r *ExpenseRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Expense, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanExpense(row)
}

func (r *ExpenseRepository) List(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE society_id = $1 AND expense_date >= $2 AND expense_date <= $3
		 ORDER BY expense_date DESC, id DESC`,
		scope.SocietyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListUnallocated returns allocate-marked expenses in the period that no
// previous batch has consumed.
func (r *ExpenseRepository) ListUnallocated(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE society_id = $1 AND expense_date >= $2 AND expense_date <= $3
		   AND allocation_rule = 'allocate_equal_all' AND is_allocated = FALSE
		 ORDER BY expense_date, id`,
		scope.SocietyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateExpenseRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE expenses SET
		   expense_date = $1, category = $2, description = $3, amount = $4, allocation_rule = $5
		 WHERE id = $6 AND society_id = $7 AND is_allocated = FALSE`,
		req.ExpenseDate, req.Category, req.Description, req.Amount, req.AllocationRule,
		id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, scope, id); getErr != nil {
			return getErr
		}
		return apperrors.InvalidState("expense has been allocated to a batch and cannot be edited")
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, scope tenant.Scope, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND society_id = $2 AND is_allocated = FALSE`,
		id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, scope, id); getErr != nil {
			return getErr
		}
		return apperrors.InvalidState("expense has been allocated to a batch and cannot be deleted")
	}
	return nil
}

// CategoryTotals aggregates expenses by category for the report module.
func (r *ExpenseRepository) CategoryTotals(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]models.ExpenseCategoryTotal, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM expenses
		 WHERE society_id = $1 AND expense_date >= $2 AND expense_date <= $3
		 GROUP BY category
		 ORDER BY SUM(amount) DESC`,
		scope.SocietyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.ExpenseCategoryTotal
	for rows.Next() {
		var t models.ExpenseCategoryTotal
		if err := rows.Scan(&t.Category, &t.Total, &t.Count); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
