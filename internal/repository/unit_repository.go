package repository

import (
	"context"

	"github.com/durar-app/rental-api/internal/domain"
	"gorm.io/gorm"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *UnitRepository) WithTx(tx *gorm.DB) *UnitRepository {
	return &UnitRepository{db: tx}
}

func (r *UnitRepository) Create(ctx context.Context, unit *domain.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *UnitRepository) GetByID(ctx context.Context, id uint) (*domain.Unit, error) {
	var unit domain.Unit
	if err := r.db.WithContext(ctx).Preload("Property").First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindByNumber looks a unit up by display number, scoped to a property when
// propertyID is non-nil. Import files do not always carry a property column.
func (r *UnitRepository) FindByNumber(ctx context.Context, number string, propertyID *uint) (*domain.Unit, error) {
	query := r.db.WithContext(ctx).Where("number = ?", number)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	}
	var unit domain.Unit
	if err := query.First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *UnitRepository) Update(ctx context.Context, unit *domain.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// UpdateFields applies a partial update; only the given columns are touched
func (r *UnitRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Unit{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus sets the occupancy status of a unit
func (r *UnitRepository) UpdateStatus(ctx context.Context, id uint, status domain.UnitStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Unit{}).Where("id = ?", id).Update("status", status).Error
}
