package service

import (
	"context"
	"fmt"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
)

// BillingService owns the recurring billing passes: the monthly invoice
// generation for active contracts and the overdue sweep. Both passes are
// idempotent so the scheduler can re-run them without duplicating work.
type BillingService struct {
	contractRepo *repository.ContractRepository
	invoiceRepo  *repository.InvoiceRepository
	activity     *ActivityService
	logger       *zap.Logger
}

func NewBillingService(
	contractRepo *repository.ContractRepository,
	invoiceRepo *repository.InvoiceRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		activity:     activity,
		logger:       logger,
	}
}

// monthWindow returns the first instant of now's month and of the next
// month, in UTC. Invoices due inside [from, to) belong to this cycle.
func monthWindow(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, 0)
	return from, to
}

// RunMonthlyInvoices generates one rent invoice per active contract for
// the current calendar month. Contracts whose period does not cover today
// are skipped, as are contracts that already have an invoice due this
// month, so repeated runs within the same month create nothing new.
func (s *BillingService) RunMonthlyInvoices(ctx context.Context, now time.Time) (int, error) {
	contracts, err := s.contractRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active contracts: %w", err)
	}

	from, to := monthWindow(now)
	created := 0

	for i := range contracts {
		contract := &contracts[i]

		if now.Before(contract.StartDate) || now.After(contract.EndDate) {
			continue
		}

		exists, err := s.invoiceRepo.ExistsForContractInWindow(ctx, contract.ID, from, to)
		if err != nil {
			return created, fmt.Errorf("failed to check invoices for contract %d: %w", contract.ID, err)
		}
		if exists {
			continue
		}

		invoice := &domain.Invoice{
			TenantID:   contract.TenantID,
			ContractID: &contract.ID,
			Amount:     contract.RentAmount,
			DueDate:    from,
			Status:     domain.InvoiceStatusPending,
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return created, fmt.Errorf("failed to create monthly invoice for contract %d: %w", contract.ID, err)
		}
		created++

		// Frequency metadata is free text from imports; resolve it so the
		// log shows contracts whose recorded schedule is not monthly.
		frequencyMonths := 1
		if contract.PaymentFrequency != nil {
			if step := domain.PaymentFrequencyStep(*contract.PaymentFrequency); step > 0 {
				frequencyMonths = step
			}
		}

		s.logger.Info("monthly invoice created",
			zap.Uint("contract_id", contract.ID),
			zap.Uint("invoice_id", invoice.ID),
			zap.Float64("amount", invoice.Amount),
			zap.Int("frequency_months", frequencyMonths))
	}

	if created > 0 {
		s.activity.Log(ctx, ActionInvoiceCreate,
			fmt.Sprintf("تم إصدار %d فاتورة شهرية لشهر %s", created, from.Format("2006-01")),
			nil, nil)
	}

	return created, nil
}

// RunOverdueSweep moves every pending invoice whose due date has passed to
// OVERDUE. Comparison is against the start of today so invoices due today
// are not touched. Returns the number of invoices flipped.
func (s *BillingService) RunOverdueSweep(ctx context.Context, now time.Time) (int64, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	flipped, err := s.invoiceRepo.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}

	if flipped > 0 {
		s.logger.Info("overdue sweep completed", zap.Int64("invoices", flipped))
	}
	return flipped, nil
}
