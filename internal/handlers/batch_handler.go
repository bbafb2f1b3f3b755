package handlers

import (
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type BatchHandler struct {
	billing  *services.BillingService
	batches  *services.BatchService
	dispatch *services.DispatchService
}

func NewBatchHandler(billing *services.BillingService, batches *services.BatchService, dispatch *services.DispatchService) *BatchHandler {
	return &BatchHandler{billing: billing, batches: batches, dispatch: dispatch}
}

// Generate runs invoice generation for a billing period.
func (h *BatchHandler) Generate(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.GenerateBatchRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	result, err := h.billing.Generate(r.Context(), scope, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	batches, err := h.batches.List(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, batches)
}

func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	batch, err := h.batches.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, batch)
}

func (h *BatchHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	result, err := h.batches.Finalize(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *BatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	result, err := h.batches.Cancel(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// Send fans the batch's invoice notifications out to residents.
func (h *BatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	result, err := h.dispatch.Send(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
