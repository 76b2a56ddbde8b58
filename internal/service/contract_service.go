package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContractService implements the contract lifecycle: creation with the
// derived first invoice, partial update, termination with deposit
// settlement, atomic renewal, and deletion. Each operation groups its
// writes into a single transaction; the audit entry is written after
// commit and its failure is swallowed.
type ContractService struct {
	contractRepo *repository.ContractRepository
	tenantRepo   *repository.TenantRepository
	unitRepo     *repository.UnitRepository
	invoiceRepo  *repository.InvoiceRepository
	activity     *ActivityService
	logger       *zap.Logger
	db           *gorm.DB
}

func NewContractService(
	contractRepo *repository.ContractRepository,
	tenantRepo *repository.TenantRepository,
	unitRepo *repository.UnitRepository,
	invoiceRepo *repository.InvoiceRepository,
	activity *ActivityService,
	logger *zap.Logger,
	db *gorm.DB,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		tenantRepo:   tenantRepo,
		unitRepo:     unitRepo,
		invoiceRepo:  invoiceRepo,
		activity:     activity,
		logger:       logger,
		db:           db,
	}
}

// normalizeString trims free-text metadata; empty values become nil so
// they are stored as NULL rather than "".
func normalizeString(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

// findOrCreateTenant resolves a tenant by exact name, creating one with
// the given phone (or the placeholder) when absent. Name is a heuristic
// identity; different people sharing a name collide on the same record.
func findOrCreateTenant(ctx context.Context, tenantRepo *repository.TenantRepository, name, phone string) (*domain.Tenant, error) {
	tenant, err := tenantRepo.FindByName(ctx, name)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if phone == "" {
		phone = domain.PlaceholderPhone
	}
	tenant = &domain.Tenant{Name: name, Phone: phone}
	if err := tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

// Create creates a contract in ACTIVE status together with exactly one
// first invoice due on the start date. The tenant is resolved by name and
// created with a placeholder phone when missing; the unit must exist.
func (s *ContractService) Create(ctx context.Context, req *domain.CreateContractRequest) (*domain.CreateContractResponse, error) {
	unit, err := s.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unit %d: %w", req.UnitID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}

	tenantName := strings.TrimSpace(req.TenantName)
	if tenantName == "" {
		return nil, fmt.Errorf("tenant name is required: %w", ErrInvalidInput)
	}

	var totalAmount float64
	switch {
	case req.Amount != nil:
		totalAmount = *req.Amount
	case req.RentAmount != nil:
		totalAmount = *req.RentAmount
	}
	periodicRent := totalAmount
	if req.RentAmount != nil {
		periodicRent = *req.RentAmount
	}

	rentalType := req.RentalType
	if rentalType == "" {
		rentalType = domain.RentalTypeMonthly
	}

	var deposit float64
	if req.Deposit != nil {
		deposit = *req.Deposit
	}

	var contract *domain.Contract
	var invoice *domain.Invoice

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := findOrCreateTenant(ctx, s.tenantRepo.WithTx(tx), tenantName, "")
		if err != nil {
			return err
		}

		contract = &domain.Contract{
			TenantID:           tenant.ID,
			TenantName:         tenantName,
			UnitID:             unit.ID,
			StartDate:          req.StartDate,
			EndDate:            req.EndDate,
			Amount:             totalAmount,
			RentAmount:         periodicRent,
			Deposit:            deposit,
			Status:             domain.ContractStatusActive,
			RentalType:         rentalType,
			RenewalStatus:      domain.RenewalStatusNone,
			EjarContractNumber: normalizeString(req.EjarContractNumber),
			PaymentMethod:      normalizeString(req.PaymentMethod),
			PaymentFrequency:   normalizeString(req.PaymentFrequency),
			ServicesIncluded:   normalizeString(req.ServicesIncluded),
			Notes:              normalizeString(req.Notes),
		}
		if err := s.contractRepo.WithTx(tx).Create(ctx, contract); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		invoice = &domain.Invoice{
			TenantID:   tenant.ID,
			ContractID: &contract.ID,
			Amount:     periodicRent,
			DueDate:    req.StartDate,
			Status:     domain.InvoiceStatusPending,
		}
		if err := s.invoiceRepo.WithTx(tx).Create(ctx, invoice); err != nil {
			return fmt.Errorf("failed to create first invoice: %w", err)
		}

		return s.unitRepo.WithTx(tx).UpdateStatus(ctx, unit.ID, domain.UnitStatusOccupied)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ActionContractCreate,
		fmt.Sprintf("تم إنشاء عقد جديد للوحدة %s باسم %s", unit.Number, tenantName),
		&contract.ID, nil)

	contract, err = s.contractRepo.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}

	return &domain.CreateContractResponse{Contract: contract, Invoice: invoice}, nil
}

// GetByID loads a contract with its tenant and unit
func (s *ContractService) GetByID(ctx context.Context, id uint) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// Update applies a partial field update. It has no derived invoice side
// effects; the billing schedule is owned by the recurring invoice job.
func (s *ContractService) Update(ctx context.Context, id uint, req *domain.UpdateContractRequest) (*domain.Contract, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.StartDate != nil {
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = *req.EndDate
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.RentAmount != nil {
		fields["rent_amount"] = *req.RentAmount
	}
	if req.Deposit != nil {
		fields["deposit"] = *req.Deposit
	}
	if req.RentalType != nil {
		fields["rental_type"] = *req.RentalType
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("invalid contract status %q: %w", *req.Status, ErrInvalidInput)
		}
		fields["status"] = *req.Status
	}
	if req.EjarContractNumber != nil {
		fields["ejar_contract_number"] = normalizeString(*req.EjarContractNumber)
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = normalizeString(*req.PaymentMethod)
	}
	if req.PaymentFrequency != nil {
		fields["payment_frequency"] = normalizeString(*req.PaymentFrequency)
	}
	if req.ServicesIncluded != nil {
		fields["services_included"] = normalizeString(*req.ServicesIncluded)
	}
	if req.Notes != nil {
		fields["notes"] = normalizeString(*req.Notes)
	}

	if len(fields) > 0 {
		if err := s.contractRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update contract: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Delete hard-deletes a contract together with its unsettled invoices.
// Paid invoices are kept for the books; the FK detaches them. When the
// contract was itself a renewal, its parent is reactivated so the tenancy
// chain stays consistent.
func (s *ContractService) Delete(ctx context.Context, id uint) error {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.contractRepo.WithTx(tx)
		if contract.RenewedFromID != nil {
			if err := repo.ReactivateRenewedParent(ctx, *contract.RenewedFromID); err != nil {
				return fmt.Errorf("failed to reactivate parent contract: %w", err)
			}
		}
		if err := s.invoiceRepo.WithTx(tx).DeletePendingByContract(ctx, id); err != nil {
			return fmt.Errorf("failed to delete pending invoices: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete contract: %w", err)
		}
		return nil
	})
}

// End terminates a contract: status goes to ENDED, the unit is freed, and
// exactly one settlement invoice is produced.
//
// Deposit settlement, with deposit = contract.deposit:
//   - deposit > 0, refund     → refund invoice of -deposit, already PAID
//   - deposit > 0, no refund  → exit invoice of rentAmount - deposit, PENDING
//   - deposit = 0             → ordinary final invoice of rentAmount, PENDING
func (s *ContractService) End(ctx context.Context, id uint, refundDeposit bool) (*domain.EndContractResponse, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deposit := contract.Deposit
	now := time.Now().UTC()

	var exitInvoice, refundInvoice *domain.Invoice

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contractRepo := s.contractRepo.WithTx(tx)
		invoiceRepo := s.invoiceRepo.WithTx(tx)

		if err := contractRepo.UpdateFields(ctx, contract.ID, map[string]interface{}{
			"status": domain.ContractStatusEnded,
		}); err != nil {
			return fmt.Errorf("failed to end contract: %w", err)
		}

		if err := s.unitRepo.WithTx(tx).UpdateStatus(ctx, contract.UnitID, domain.UnitStatusAvailable); err != nil {
			return fmt.Errorf("failed to free unit: %w", err)
		}

		settlement := &domain.Invoice{
			TenantID:   contract.TenantID,
			ContractID: &contract.ID,
			DueDate:    now,
		}
		switch {
		case deposit > 0 && refundDeposit:
			settlement.Amount = -deposit
			settlement.Status = domain.InvoiceStatusPaid
			refundInvoice = settlement
		case deposit > 0:
			settlement.Amount = contract.RentAmount - deposit
			settlement.Status = domain.InvoiceStatusPending
			exitInvoice = settlement
		default:
			settlement.Amount = contract.RentAmount
			settlement.Status = domain.InvoiceStatusPending
			exitInvoice = settlement
		}
		if err := invoiceRepo.Create(ctx, settlement); err != nil {
			return fmt.Errorf("failed to create settlement invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("تم إنهاء العقد رقم %d بعد خصم التأمين", contract.ID)
	if deposit > 0 && refundDeposit {
		description = fmt.Sprintf("تم إنهاء العقد رقم %d واسترداد التأمين للعميل %s", contract.ID, contract.TenantName)
	}
	s.activity.Log(ctx, ActionContractEnd, description, &contract.ID, nil)

	updated, err := s.contractRepo.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}

	return &domain.EndContractResponse{
		Contract:      updated,
		Unit:          updated.Unit,
		ExitInvoice:   exitInvoice,
		RefundInvoice: refundInvoice,
	}, nil
}

// Renew atomically creates a follow-up contract and retires the old one.
// The new contract copies the tenancy and commercial metadata, starts
// ACTIVE with renewal status PENDING, and gets one seed invoice due on its
// start date. The old contract becomes ENDED/RENEWED. Renewing a contract
// that was already renewed is a conflict.
func (s *ContractService) Renew(ctx context.Context, id uint, req *domain.RenewContractRequest) (*domain.Contract, error) {
	oldContract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if oldContract.RenewalStatus == domain.RenewalStatusRenewed {
		return nil, fmt.Errorf("contract %d was already renewed: %w", id, ErrConflict)
	}

	var newContract *domain.Contract

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contractRepo := s.contractRepo.WithTx(tx)

		newContract = &domain.Contract{
			TenantID:         oldContract.TenantID,
			TenantName:       oldContract.TenantName,
			UnitID:           oldContract.UnitID,
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			Amount:           req.Amount,
			RentAmount:       req.Amount,
			Deposit:          oldContract.Deposit,
			Status:           domain.ContractStatusActive,
			RentalType:       oldContract.RentalType,
			RenewalStatus:    domain.RenewalStatusPending,
			RenewedFromID:    &oldContract.ID,
			PaymentMethod:    oldContract.PaymentMethod,
			PaymentFrequency: oldContract.PaymentFrequency,
		}
		if err := contractRepo.Create(ctx, newContract); err != nil {
			return fmt.Errorf("failed to create renewal contract: %w", err)
		}

		if err := contractRepo.UpdateFields(ctx, oldContract.ID, map[string]interface{}{
			"status":         domain.ContractStatusEnded,
			"renewal_status": domain.RenewalStatusRenewed,
		}); err != nil {
			return fmt.Errorf("failed to retire renewed contract: %w", err)
		}

		seed := &domain.Invoice{
			TenantID:   oldContract.TenantID,
			ContractID: &newContract.ID,
			Amount:     req.Amount,
			DueDate:    req.StartDate,
			Status:     domain.InvoiceStatusPending,
		}
		if err := s.invoiceRepo.WithTx(tx).Create(ctx, seed); err != nil {
			return fmt.Errorf("failed to create renewal invoice: %w", err)
		}

		return s.unitRepo.WithTx(tx).UpdateStatus(ctx, oldContract.UnitID, domain.UnitStatusOccupied)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ActionContractRenewal,
		fmt.Sprintf("تجديد العقد رقم %d بعقد جديد رقم %d", oldContract.ID, newContract.ID),
		&newContract.ID, nil)

	return s.contractRepo.GetByID(ctx, newContract.ID)
}
