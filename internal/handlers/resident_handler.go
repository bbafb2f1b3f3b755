package handlers

import (
	"fmt"
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type ResidentHandler struct {
	residents *services.ResidentService
	ledger    *services.LedgerService
	societies *services.SocietyService
}

func NewResidentHandler(residents *services.ResidentService, ledger *services.LedgerService, societies *services.SocietyService) *ResidentHandler {
	return &ResidentHandler{residents: residents, ledger: ledger, societies: societies}
}

func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.CreateResidentRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	resident, err := h.residents.Create(r.Context(), scope, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resident)
}

func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"
	residents, err := h.residents.List(r.Context(), scope, activeOnly)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, residents)
}

func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	resident, err := h.residents.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resident)
}

func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req models.CreateResidentRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.residents.Update(r.Context(), scope, id, &req); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "resident updated"})
}

func (h *ResidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	deactivated, err := h.residents.Delete(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	msg := "resident deleted"
	if deactivated {
		msg = "resident has billing history and was deactivated instead"
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Ledger returns the resident's statement for a date range.
func (h *ResidentHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	ledger, err := h.ledger.ResidentLedger(r.Context(), scope, id, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, ledger)
}

// LedgerPDF streams the resident's statement as a PDF download.
func (h *ResidentHandler) LedgerPDF(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	society, err := h.societies.Get(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	data, err := h.ledger.LedgerPDF(r.Context(), scope, society, id, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%d.pdf"`, id))
	w.Write(data)
}
