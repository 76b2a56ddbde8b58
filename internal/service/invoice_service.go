package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService covers the manual invoice surface: ad-hoc invoices,
// status transitions, and payment recording with the derived
// PARTIAL/PAID progression.
type InvoiceService struct {
	invoiceRepo *repository.InvoiceRepository
	paymentRepo *repository.PaymentRepository
	tenantRepo  *repository.TenantRepository
	activity    *ActivityService
	logger      *zap.Logger
	db          *gorm.DB
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	tenantRepo *repository.TenantRepository,
	activity *ActivityService,
	logger *zap.Logger,
	db *gorm.DB,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		tenantRepo:  tenantRepo,
		activity:    activity,
		logger:      logger,
		db:          db,
	}
}

// Create registers a manual invoice, detached or tied to a contract.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if _, err := s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tenant %d: %w", req.TenantID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	status := req.Status
	if status == "" {
		status = domain.InvoiceStatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid invoice status %q: %w", status, ErrInvalidInput)
	}

	dueDate := time.Now().UTC()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	invoice := &domain.Invoice{
		TenantID:   req.TenantID,
		ContractID: req.ContractID,
		Amount:     req.Amount,
		DueDate:    dueDate,
		Status:     status,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.activity.Log(ctx, ActionInvoiceCreate,
		fmt.Sprintf("تم إنشاء فاتورة يدوية رقم %d بمبلغ %.2f", invoice.ID, invoice.Amount),
		req.ContractID, nil)

	return invoice, nil
}

// GetByID loads an invoice with its payments
func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListByContract returns a contract's invoices, newest due date first
func (s *InvoiceService) ListByContract(ctx context.Context, contractID uint) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListByContract(ctx, contractID)
}

// UpdateStatus applies a manual status transition
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uint, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid invoice status %q: %w", status, ErrInvalidInput)
	}
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.activity.Log(ctx, ActionInvoiceStatusUpdate,
		fmt.Sprintf("تغيير حالة الفاتورة رقم %d من %s إلى %s", id, invoice.Status, status),
		invoice.ContractID, nil)

	return s.GetByID(ctx, id)
}

// RecordPayment attaches a payment to an invoice and rolls the invoice
// status forward from the accumulated total: covering the amount means
// PAID, anything between zero and the amount means PARTIAL.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uint, req *domain.RecordPaymentRequest) (*domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = domain.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q: %w", method, ErrInvalidInput)
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		invoiceRepo := s.invoiceRepo.WithTx(tx)

		payment := &domain.Payment{
			InvoiceID: invoiceID,
			Amount:    req.Amount,
			Method:    method,
			PaidAt:    paidAt,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		total, err := paymentRepo.TotalForInvoice(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to total payments: %w", err)
		}

		status := invoice.Status
		switch {
		case total >= invoice.Amount:
			status = domain.InvoiceStatusPaid
		case total > 0:
			status = domain.InvoiceStatusPartial
		}
		if status != invoice.Status {
			if err := invoiceRepo.UpdateStatus(ctx, invoiceID, status); err != nil {
				return fmt.Errorf("failed to roll invoice status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ActionPaymentRecord,
		fmt.Sprintf("تم تسجيل دفعة بمبلغ %.2f على الفاتورة رقم %d", req.Amount, invoiceID),
		invoice.ContractID, nil)

	return s.GetByID(ctx, invoiceID)
}

// ListPayments returns an invoice's payments in paid order
func (s *InvoiceService) ListPayments(ctx context.Context, invoiceID uint) ([]domain.Payment, error) {
	if _, err := s.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}
