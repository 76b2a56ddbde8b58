package repository

import (
	"context"

	"github.com/durar-app/rental-api/internal/domain"
	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *TenantRepository) WithTx(tx *gorm.DB) *TenantRepository {
	return &TenantRepository{db: tx}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *TenantRepository) GetByID(ctx context.Context, id uint) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindByName returns the first tenant with the exact given name, or
// gorm.ErrRecordNotFound. Name is a heuristic identity: two people sharing
// a name resolve to the same tenant record.
func (r *TenantRepository) FindByName(ctx context.Context, name string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
