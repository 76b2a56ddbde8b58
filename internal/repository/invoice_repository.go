package repository

import (
	"context"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uint) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uint, status domain.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

// ExistsForContractInWindow reports whether the contract already has an
// invoice whose due date falls within [from, to). This is the idempotency
// check of the recurring invoice job: the window is the current calendar
// month, so re-running the job never bills a contract twice.
func (r *InvoiceRepository) ExistsForContractInWindow(ctx context.Context, contractID uint, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("contract_id = ? AND due_date >= ? AND due_date < ?", contractID, from, to).
		Count(&count).Error
	return count > 0, err
}

// MarkOverdue bulk-updates every PENDING invoice due before the given day
// to OVERDUE. Invoices that are PAID, PARTIAL, CANCELLED or already
// OVERDUE are left untouched. Returns the number of rows updated.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status = ? AND due_date < ?", domain.InvoiceStatusPending, today).
		Update("status", domain.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}

// DeletePendingByContract removes every PENDING invoice of a contract;
// used when a contract is deleted so only settled invoices remain.
func (r *InvoiceRepository) DeletePendingByContract(ctx context.Context, contractID uint) error {
	return r.db.WithContext(ctx).
		Where("contract_id = ? AND status = ?", contractID, domain.InvoiceStatusPending).
		Delete(&domain.Invoice{}).Error
}

// ListByContract returns a contract's invoices ordered by due date
func (r *InvoiceRepository) ListByContract(ctx context.Context, contractID uint) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}
