package handlers

import (
	"net/http"

	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type ReportHandler struct {
	reports   *services.ReportService
	societies *services.SocietyService
}

func NewReportHandler(reports *services.ReportService, societies *services.SocietyService) *ReportHandler {
	return &ReportHandler{reports: reports, societies: societies}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	stats, err := h.reports.Dashboard(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *ReportHandler) CollectionSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	summary, err := h.reports.CollectionSummary(r.Context(), scope, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// CollectionSummaryPDF streams the collection report as a PDF download.
func (h *ReportHandler) CollectionSummaryPDF(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
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
	data, err := h.reports.CollectionSummaryPDF(r.Context(), scope, society, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="collection-summary.pdf"`)
	w.Write(data)
}

func (h *ReportHandler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	breakdown, err := h.reports.ExpenseBreakdown(r.Context(), scope, from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, breakdown)
}

func (h *ReportHandler) Defaulters(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	defaulters, err := h.reports.Defaulters(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, defaulters)
}

// DefaultersCSV streams the defaulters report for spreadsheets.
func (h *ReportHandler) DefaultersCSV(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	data, err := h.reports.DefaultersCSV(r.Context(), scope)
	if err != nil {
		utils.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="defaulters.csv"`)
	w.Write(data)
}
