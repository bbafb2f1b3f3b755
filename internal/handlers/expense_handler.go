package handlers

import (
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type ExpenseHandler struct {
	expenses *services.ExpenseService
}

func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.CreateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	expense, err := h.expenses.Create(r.Context(), scope, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	expenses, err := h.expenses.List(r.Context(), scope, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req models.CreateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.expenses.Update(r.Context(), scope, id, &req); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "expense updated"})
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.expenses.Delete(r.Context(), scope, id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}
