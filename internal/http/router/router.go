package router

import (
	"encoding/json"
	"net/http"

	"github.com/durar-app/rental-api/internal/config"
	"github.com/durar-app/rental-api/internal/database"
	"github.com/durar-app/rental-api/internal/http/handler"
	"github.com/durar-app/rental-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	rateLimiter     *middleware.RateLimiter
	contractHandler *handler.ContractHandler
	unitHandler     *handler.UnitHandler
	invoiceHandler  *handler.InvoiceHandler
	propertyHandler *handler.PropertyHandler
	activityHandler *handler.ActivityHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	contractHandler *handler.ContractHandler,
	unitHandler *handler.UnitHandler,
	invoiceHandler *handler.InvoiceHandler,
	propertyHandler *handler.PropertyHandler,
	activityHandler *handler.ActivityHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		rateLimiter:     rateLimiter,
		contractHandler: contractHandler,
		unitHandler:     unitHandler,
		invoiceHandler:  invoiceHandler,
		propertyHandler: propertyHandler,
		activityHandler: activityHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)
	r.Use(chimiddleware.Timeout(rt.cfg.Server.RequestTimeoutDuration()))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Properties
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", rt.propertyHandler.List)
			r.Post("/", rt.propertyHandler.Create)
			r.Get("/{id}", rt.propertyHandler.Get)
		})

		// Units
		r.Route("/units", func(r chi.Router) {
			r.Post("/", rt.unitHandler.Create)
			r.Post("/import-csv", rt.unitHandler.ImportCsv)
			r.Get("/{id}", rt.unitHandler.Get)
			r.Put("/{id}", rt.unitHandler.Update)
		})

		// Contracts
		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", rt.contractHandler.Create)
			r.Post("/import-csv", rt.contractHandler.ImportCsv)
			r.Get("/{id}", rt.contractHandler.Get)
			r.Put("/{id}", rt.contractHandler.Update)
			r.Delete("/{id}", rt.contractHandler.Delete)

			// Lifecycle endpoints
			r.Post("/{id}/end", rt.contractHandler.End)
			r.Post("/{id}/renew", rt.contractHandler.Renew)
			r.Get("/{id}/invoices", rt.contractHandler.ListInvoices)
		})

		// Invoices
		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", rt.invoiceHandler.Create)
			r.Post("/run-billing", rt.invoiceHandler.RunBilling)
			r.Post("/run-overdue-sweep", rt.invoiceHandler.RunOverdueSweep)
			r.Get("/{id}", rt.invoiceHandler.Get)
			r.Patch("/{id}/status", rt.invoiceHandler.UpdateStatus)
			r.Post("/{id}/payments", rt.invoiceHandler.RecordPayment)
			r.Get("/{id}/payments", rt.invoiceHandler.ListPayments)
		})

		// Activity feed
		r.Get("/activity", rt.activityHandler.List)
	})

	return r
}
