package jobs

import (
	"context"
	"time"

	"github.com/durar-app/rental-api/internal/config"
	"go.uber.org/zap"
)

// MonthlyInvoiceJobName is the name of the recurring rent invoice job
const MonthlyInvoiceJobName = "monthly_invoices"

// OverdueSweepJobName is the name of the overdue invoice sweep job
const OverdueSweepJobName = "overdue_sweep"

// BillingRunner defines the billing passes the jobs invoke. The interface
// keeps this package from importing the service package directly.
type BillingRunner interface {
	// RunMonthlyInvoices generates this month's rent invoices for active
	// contracts. Returns the number of invoices created.
	RunMonthlyInvoices(ctx context.Context, now time.Time) (int, error)

	// RunOverdueSweep flips past-due pending invoices to OVERDUE.
	// Returns the number of invoices flipped.
	RunOverdueSweep(ctx context.Context, now time.Time) (int64, error)
}

// MonthlyInvoiceJob runs the recurring rent invoice generation.
type MonthlyInvoiceJob struct {
	billing BillingRunner
	logger  *zap.Logger
	timeout time.Duration
}

// NewMonthlyInvoiceJob creates the recurring invoice job.
// The timeout bounds a single generation pass.
func NewMonthlyInvoiceJob(billing BillingRunner, logger *zap.Logger, timeout time.Duration) *MonthlyInvoiceJob {
	return &MonthlyInvoiceJob{billing: billing, logger: logger, timeout: timeout}
}

// Run executes one invoice generation pass. The pass is idempotent, so a
// missed or repeated tick never duplicates invoices.
func (j *MonthlyInvoiceJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	created, err := j.billing.RunMonthlyInvoices(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("monthly invoice job failed",
			zap.Error(err),
			zap.Int("created", created),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("monthly invoice job finished",
		zap.Int("created", created),
		zap.Duration("duration", time.Since(start)))
}

// OverdueSweepJob runs the daily overdue sweep.
type OverdueSweepJob struct {
	billing BillingRunner
	logger  *zap.Logger
	timeout time.Duration
}

// NewOverdueSweepJob creates the overdue sweep job.
func NewOverdueSweepJob(billing BillingRunner, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{billing: billing, logger: logger, timeout: timeout}
}

// Run executes one overdue sweep.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	flipped, err := j.billing.RunOverdueSweep(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("overdue sweep job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("overdue sweep job finished",
		zap.Int64("flipped", flipped),
		zap.Duration("duration", time.Since(start)))
}

// RegisterBillingJobs wires the billing jobs into the scheduler using the
// cron expressions from config. When SweepOnStartup is set, one sweep runs
// immediately so a restart does not leave stale PENDING invoices until the
// next tick.
func RegisterBillingJobs(scheduler *Scheduler, billing BillingRunner, cfg *config.BillingConfig, logger *zap.Logger) error {
	timeout := cfg.JobTimeoutDuration()

	invoiceJob := NewMonthlyInvoiceJob(billing, logger, timeout)
	if err := scheduler.AddJob(MonthlyInvoiceJobName, cfg.MonthlyCron, invoiceJob.Run); err != nil {
		return err
	}

	sweepJob := NewOverdueSweepJob(billing, logger, timeout)
	if err := scheduler.AddJob(OverdueSweepJobName, cfg.OverdueCron, sweepJob.Run); err != nil {
		return err
	}

	if cfg.SweepOnStartup {
		go sweepJob.Run()
	}

	return nil
}
