package handlers

import (
	"io"
	"net/http"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type RazorpayHandler struct {
	razorpay *services.RazorpayService
}

func NewRazorpayHandler(razorpay *services.RazorpayService) *RazorpayHandler {
	return &RazorpayHandler{razorpay: razorpay}
}

// CreateOrder raises a checkout order for an invoice's open balance.
func (h *RazorpayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	resp, err := h.razorpay.CreateOrder(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

// Webhook receives gateway callbacks. Unauthenticated: the HMAC
// signature is the only trust anchor.
func (h *RazorpayHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.Error(w, apperrors.Validation("unreadable webhook body"))
		return
	}
	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.razorpay.HandleWebhook(r.Context(), body, signature); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
