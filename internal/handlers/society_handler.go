package handlers

import (
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type SocietyHandler struct {
	societies *services.SocietyService
}

func NewSocietyHandler(societies *services.SocietyService) *SocietyHandler {
	return &SocietyHandler{societies: societies}
}

func (h *SocietyHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	society, err := h.societies.Get(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, society)
}

func (h *SocietyHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.UpdateSocietyRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.societies.Update(r.Context(), scope, &req); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "society updated"})
}
