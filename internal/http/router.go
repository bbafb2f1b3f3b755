package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flatpay-backend/internal/handlers"
	"flatpay-backend/internal/health"
	"flatpay-backend/internal/middleware"
	"flatpay-backend/internal/models"
	"flatpay-backend/pkg/utils"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Society         *handlers.SocietyHandler
	Unit            *handlers.UnitHandler
	Resident        *handlers.ResidentHandler
	RecurringCharge *handlers.RecurringChargeHandler
	Expense         *handlers.ExpenseHandler
	Batch           *handlers.BatchHandler
	Invoice         *handlers.InvoiceHandler
	Razorpay        *handlers.RazorpayHandler
	Report          *handlers.ReportHandler
	User            *handlers.UserHandler
}

// NewRouter assembles the full HTTP surface. Everything under /api/v1
// except login, 2fa verification and the payment webhook requires a
// valid token; write endpoints additionally require a role.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware, healthChecker *health.HealthChecker) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.MetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status := healthChecker.CheckBasic()
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		utils.JSON(w, code, status)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-2fa", h.Auth.Verify2FA).Methods(http.MethodPost)
	api.HandleFunc("/payments/razorpay/webhook", h.Razorpay.Webhook).Methods(http.MethodPost)

	// Authenticated
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.Authenticate)

	protected.HandleFunc("/auth/2fa/setup", h.Auth.SetupTOTP).Methods(http.MethodPost)
	protected.HandleFunc("/auth/2fa/verify", h.Auth.VerifyTOTP).Methods(http.MethodPost)

	protected.HandleFunc("/society", h.Society.Get).Methods(http.MethodGet)
	protected.HandleFunc("/units", h.Unit.List).Methods(http.MethodGet)
	protected.HandleFunc("/units/{id}", h.Unit.Get).Methods(http.MethodGet)
	protected.HandleFunc("/blocks", h.Unit.ListBlocks).Methods(http.MethodGet)
	protected.HandleFunc("/residents", h.Resident.List).Methods(http.MethodGet)
	protected.HandleFunc("/residents/{id}", h.Resident.Get).Methods(http.MethodGet)
	protected.HandleFunc("/residents/{id}/ledger", h.Resident.Ledger).Methods(http.MethodGet)
	protected.HandleFunc("/residents/{id}/ledger/pdf", h.Resident.LedgerPDF).Methods(http.MethodGet)
	protected.HandleFunc("/recurring-charges", h.RecurringCharge.List).Methods(http.MethodGet)
	protected.HandleFunc("/expenses", h.Expense.List).Methods(http.MethodGet)
	protected.HandleFunc("/batches", h.Batch.List).Methods(http.MethodGet)
	protected.HandleFunc("/batches/{id}", h.Batch.Get).Methods(http.MethodGet)
	protected.HandleFunc("/invoices", h.Invoice.List).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}", h.Invoice.Get).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}/payments", h.Invoice.ListPayments).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}/messages", h.Invoice.ListMessages).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}/transactions", h.Invoice.ListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/reports/dashboard", h.Report.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/reports/collection-summary", h.Report.CollectionSummary).Methods(http.MethodGet)
	protected.HandleFunc("/reports/collection-summary/pdf", h.Report.CollectionSummaryPDF).Methods(http.MethodGet)
	protected.HandleFunc("/reports/expense-breakdown", h.Report.ExpenseBreakdown).Methods(http.MethodGet)
	protected.HandleFunc("/reports/defaulters", h.Report.Defaulters).Methods(http.MethodGet)
	protected.HandleFunc("/reports/defaulters/csv", h.Report.DefaultersCSV).Methods(http.MethodGet)

	protected.HandleFunc("/invoices/{id}/pay/razorpay", h.Razorpay.CreateOrder).Methods(http.MethodPost)

	// Billing writes: admins and managers
	billing := protected.NewRoute().Subrouter()
	billing.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))

	billing.HandleFunc("/society", h.Society.Update).Methods(http.MethodPut)
	billing.HandleFunc("/units", h.Unit.Create).Methods(http.MethodPost)
	billing.HandleFunc("/units/{id}", h.Unit.Update).Methods(http.MethodPut)
	billing.HandleFunc("/units/{id}", h.Unit.Delete).Methods(http.MethodDelete)
	billing.HandleFunc("/blocks", h.Unit.CreateBlock).Methods(http.MethodPost)
	billing.HandleFunc("/blocks/{id}", h.Unit.DeleteBlock).Methods(http.MethodDelete)
	billing.HandleFunc("/residents", h.Resident.Create).Methods(http.MethodPost)
	billing.HandleFunc("/residents/{id}", h.Resident.Update).Methods(http.MethodPut)
	billing.HandleFunc("/residents/{id}", h.Resident.Delete).Methods(http.MethodDelete)
	billing.HandleFunc("/recurring-charges", h.RecurringCharge.Create).Methods(http.MethodPost)
	billing.HandleFunc("/recurring-charges/{id}", h.RecurringCharge.Update).Methods(http.MethodPut)
	billing.HandleFunc("/recurring-charges/{id}", h.RecurringCharge.Deactivate).Methods(http.MethodDelete)
	billing.HandleFunc("/batches/generate", h.Batch.Generate).Methods(http.MethodPost)
	billing.HandleFunc("/batches/{id}/finalize", h.Batch.Finalize).Methods(http.MethodPost)
	billing.HandleFunc("/batches/{id}/cancel", h.Batch.Cancel).Methods(http.MethodPost)
	billing.HandleFunc("/batches/{id}/send", h.Batch.Send).Methods(http.MethodPost)
	billing.HandleFunc("/invoices/{id}/pdf", h.Invoice.RenderPDF).Methods(http.MethodPost)
	billing.HandleFunc("/invoices/mark-overdue", h.Invoice.MarkOverdue).Methods(http.MethodPost)

	// Money and expense writes: accountants too
	accounting := protected.NewRoute().Subrouter()
	accounting.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleAccountant))

	accounting.HandleFunc("/expenses", h.Expense.Create).Methods(http.MethodPost)
	accounting.HandleFunc("/expenses/{id}", h.Expense.Update).Methods(http.MethodPut)
	accounting.HandleFunc("/expenses/{id}", h.Expense.Delete).Methods(http.MethodDelete)
	accounting.HandleFunc("/invoices/{id}/payments", h.Invoice.RecordPayment).Methods(http.MethodPost)

	// Staff management: admins only
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/users", h.User.Create).Methods(http.MethodPost)
	admin.HandleFunc("/users", h.User.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/active", h.User.SetActive).Methods(http.MethodPut)

	return r
}
