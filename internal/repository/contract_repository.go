package repository

import (
	"context"

	"github.com/durar-app/rental-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ContractRepository) WithTx(tx *gorm.DB) *ContractRepository {
	return &ContractRepository{db: tx}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	// Omit associations to avoid GORM trying to upsert related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Unit").
		Preload("Unit.Property").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(contract).Error
}

// UpdateFields applies a partial update; only the given columns are touched
func (r *ContractRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Contract{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ContractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Contract{}, id).Error
}

// ListActive returns every contract in ACTIVE status; used by the recurring
// invoice job.
func (r *ContractRepository) ListActive(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.ContractStatusActive).
		Order("id ASC").
		Find(&contracts).Error
	return contracts, err
}

// ReactivateRenewedParent flips a RENEWED parent contract back to
// ACTIVE/PENDING. Called when the renewal contract that superseded it is
// deleted.
func (r *ContractRepository) ReactivateRenewedParent(ctx context.Context, parentID uint) error {
	return r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("id = ? AND renewal_status = ?", parentID, domain.RenewalStatusRenewed).
		Updates(map[string]interface{}{
			"renewal_status": domain.RenewalStatusPending,
			"status":         domain.ContractStatusActive,
		}).Error
}
