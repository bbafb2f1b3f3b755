package handlers

import (
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type RecurringChargeHandler struct {
	charges *services.RecurringChargeService
}

func NewRecurringChargeHandler(charges *services.RecurringChargeService) *RecurringChargeHandler {
	return &RecurringChargeHandler{charges: charges}
}

func (h *RecurringChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.CreateRecurringChargeRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	charge, err := h.charges.Create(r.Context(), scope, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, charge)
}

func (h *RecurringChargeHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"
	charges, err := h.charges.List(r.Context(), scope, activeOnly)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, charges)
}

func (h *RecurringChargeHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req models.CreateRecurringChargeRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.charges.Update(r.Context(), scope, id, &req); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "charge updated"})
}

// Deactivate retires a charge from future billing runs.
func (h *RecurringChargeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.charges.SetActive(r.Context(), scope, id, false); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "charge deactivated"})
}
