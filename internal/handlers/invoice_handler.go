package handlers

import (
	"net/http"
	"strconv"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/repositories"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type InvoiceHandler struct {
	invoices  *services.InvoiceService
	payments  *services.PaymentService
	pdfs      *services.InvoicePDFService
	societies *services.SocietyService
}

func NewInvoiceHandler(invoices *services.InvoiceService, payments *services.PaymentService, pdfs *services.InvoicePDFService, societies *services.SocietyService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, payments: payments, pdfs: pdfs, societies: societies}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	filter := repositories.InvoiceFilter{
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("resident_id"); raw != "" {
		filter.ResidentID, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("batch_id"); raw != "" {
		filter.BatchID, _ = strconv.Atoi(raw)
	}
	invoices, err := h.invoices.List(r.Context(), scope, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	invoice, err := h.invoices.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

// RenderPDF renders (or re-renders) the invoice PDF and returns its
// download URL.
func (h *InvoiceHandler) RenderPDF(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	url, err := h.pdfs.Render(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"pdf_url": url})
}

// RecordPayment records a manual payment against an invoice.
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	var req models.RecordPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	result, err := h.payments.Record(r.Context(), scope, id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *InvoiceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	payments, err := h.payments.ListByInvoice(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *InvoiceHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	logs, err := h.invoices.Messages(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}

func (h *InvoiceHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}
	txs, err := h.invoices.Transactions(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, txs)
}

// MarkOverdue sweeps pending invoices past their due date.
func (h *InvoiceHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	society, err := h.societies.Get(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	n, err := h.invoices.MarkOverdue(r.Context(), scope, society)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"marked_overdue": n})
}
