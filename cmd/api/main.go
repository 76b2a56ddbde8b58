package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/durar-app/rental-api/internal/config"
	"github.com/durar-app/rental-api/internal/database"
	"github.com/durar-app/rental-api/internal/http/handler"
	"github.com/durar-app/rental-api/internal/http/middleware"
	"github.com/durar-app/rental-api/internal/http/router"
	"github.com/durar-app/rental-api/internal/jobs"
	"github.com/durar-app/rental-api/internal/logger"
	"github.com/durar-app/rental-api/internal/repository"
	"github.com/durar-app/rental-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.HealthCheck(db); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Initialize repositories
	propertyRepo := repository.NewPropertyRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)

	// Initialize services
	activityService := service.NewActivityService(activityLogRepo, log)
	contractService := service.NewContractService(contractRepo, tenantRepo, unitRepo, invoiceRepo, activityService, log, db)
	billingService := service.NewBillingService(contractRepo, invoiceRepo, activityService, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentRepo, tenantRepo, activityService, log, db)
	importService := service.NewImportService(propertyRepo, unitRepo, tenantRepo, contractRepo, invoiceRepo, activityService, log, db)
	unitService := service.NewUnitService(unitRepo, propertyRepo, log)
	propertyService := service.NewPropertyService(propertyRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	contractHandler := handler.NewContractHandler(contractService, invoiceService, importService, log)
	unitHandler := handler.NewUnitHandler(unitService, importService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, billingService, log)
	propertyHandler := handler.NewPropertyHandler(propertyService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		contractHandler,
		unitHandler,
		invoiceHandler,
		propertyHandler,
		activityHandler,
	)

	// Initialize and start scheduler for the billing jobs
	var scheduler *jobs.Scheduler
	if cfg.Billing.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterBillingJobs(scheduler, billingService, &cfg.Billing, log); err != nil {
			log.Error("Failed to register billing jobs", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with billing jobs",
				zap.String("monthly_cron", cfg.Billing.MonthlyCron),
				zap.String("overdue_cron", cfg.Billing.OverdueCron),
			)
		}
	} else {
		log.Info("Billing scheduler disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
