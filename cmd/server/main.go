package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flatpay-backend/internal/auth"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/config"
	"flatpay-backend/internal/database"
	"flatpay-backend/internal/db"
	"flatpay-backend/internal/handlers"
	"flatpay-backend/internal/health"
	flatpayhttp "flatpay-backend/internal/http"
	"flatpay-backend/internal/middleware"
	"flatpay-backend/internal/repositories"
	"flatpay-backend/internal/services"
	"flatpay-backend/internal/storage"
	"flatpay-backend/internal/whatsapp"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, "migrations")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("[Startup] migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Startup] redis unavailable, caching disabled: %v", err)
	}

	objectStore, err := storage.NewClient(cfg)
	if err != nil {
		log.Fatalf("[Startup] object storage init failed: %v", err)
	}

	waClient := whatsapp.NewClient(cfg.WhatsApp.APIKey, cfg.WhatsApp.PhoneNumberID)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	societyRepo := repositories.NewSocietyRepository(pool)
	blockRepo := repositories.NewBlockRepository(pool)
	unitRepo := repositories.NewUnitRepository(pool)
	residentRepo := repositories.NewResidentRepository(pool)
	chargeRepo := repositories.NewRecurringChargeRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	batchRepo := repositories.NewInvoiceBatchRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	onlineTxRepo := repositories.NewOnlineTransactionRepository(pool)
	messageLogRepo := repositories.NewMessageLogRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	authService := services.NewAuthService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo, cfg.JWT.Issuer)
	userService := services.NewUserService(userRepo)
	societyService := services.NewSocietyService(societyRepo)
	unitService := services.NewUnitService(unitRepo, blockRepo)
	residentService := services.NewResidentService(residentRepo, unitRepo)
	chargeService := services.NewRecurringChargeService(chargeRepo)
	expenseService := services.NewExpenseService(expenseRepo)
	billingService := services.NewBillingService(batchRepo, residentRepo, chargeRepo, expenseRepo, societyRepo)
	batchService := services.NewBatchService(batchRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, messageLogRepo, onlineTxRepo)
	paymentService := services.NewPaymentService(paymentRepo)
	ledgerService := services.NewLedgerService(ledgerRepo, residentRepo)
	pdfService := services.NewInvoicePDFService(invoiceRepo, societyRepo, objectStore)
	dispatchService := services.NewDispatchService(batchRepo, invoiceRepo, societyRepo, messageLogRepo,
		waClient, cfg.WhatsApp.InvoiceTemplate)
	razorpayService := services.NewRazorpayService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret, onlineTxRepo, invoiceRepo, paymentRepo)
	reportService := services.NewReportService(paymentRepo, expenseRepo, reportRepo)

	// HTTP
	routerHandlers := flatpayhttp.Handlers{
		Auth:            handlers.NewAuthHandler(authService, totpService),
		Society:         handlers.NewSocietyHandler(societyService),
		Unit:            handlers.NewUnitHandler(unitService),
		Resident:        handlers.NewResidentHandler(residentService, ledgerService, societyService),
		RecurringCharge: handlers.NewRecurringChargeHandler(chargeService),
		Expense:         handlers.NewExpenseHandler(expenseService),
		Batch:           handlers.NewBatchHandler(billingService, batchService, dispatchService),
		Invoice:         handlers.NewInvoiceHandler(invoiceService, paymentService, pdfService, societyService),
		Razorpay:        handlers.NewRazorpayHandler(razorpayService),
		Report:          handlers.NewReportHandler(reportService, societyService),
		User:            handlers.NewUserHandler(userService),
	}

	authMW := middleware.NewAuthMiddleware(jwtManager, userRepo)
	healthChecker := health.NewHealthChecker(pool)
	router := flatpayhttp.NewRouter(routerHandlers, authMW, healthChecker)

	corsHandler := middleware.NewCORS(cfg)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[Startup] listening on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Startup] server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[Shutdown] draining connections")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Shutdown] forced: %v", err)
	}
	log.Println("[Shutdown] done")
}
