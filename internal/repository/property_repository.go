package repository

import (
	"context"

	"github.com/durar-app/rental-api/internal/domain"
	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PropertyRepository) WithTx(tx *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: tx}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*domain.Property, error) {
	var property domain.Property
	if err := r.db.WithContext(ctx).First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByName returns the property with the exact given name, or
// gorm.ErrRecordNotFound.
func (r *PropertyRepository) FindByName(ctx context.Context, name string) (*domain.Property, error) {
	var property domain.Property
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	var properties []domain.Property
	err := r.db.WithContext(ctx).Order("name ASC").Find(&properties).Error
	return properties, err
}
