package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitService is the thin management surface for units
type UnitService struct {
	unitRepo     *repository.UnitRepository
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewUnitService(unitRepo *repository.UnitRepository, propertyRepo *repository.PropertyRepository, logger *zap.Logger) *UnitService {
	return &UnitService{unitRepo: unitRepo, propertyRepo: propertyRepo, logger: logger}
}

func (s *UnitService) Create(ctx context.Context, req *domain.CreateUnitRequest) (*domain.Unit, error) {
	if _, err := s.propertyRepo.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %d: %w", req.PropertyID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	status := req.Status
	if status == "" {
		status = domain.UnitStatusAvailable
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid unit status %q: %w", status, ErrInvalidInput)
	}
	rentalType := req.Type
	if rentalType == "" {
		rentalType = domain.RentalTypeMonthly
	}
	if !rentalType.IsValid() {
		return nil, fmt.Errorf("invalid rental type %q: %w", rentalType, ErrInvalidInput)
	}

	unit := &domain.Unit{
		Number:     req.Number,
		PropertyID: req.PropertyID,
		Status:     status,
		Type:       rentalType,
		Floor:      req.Floor,
		Rooms:      req.Rooms,
		Baths:      req.Baths,
		Area:       req.Area,
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

func (s *UnitService) GetByID(ctx context.Context, id uint) (*domain.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return unit, nil
}

func (s *UnitService) Update(ctx context.Context, id uint, req *domain.UpdateUnitRequest) (*domain.Unit, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Number != nil {
		fields["number"] = *req.Number
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("invalid unit status %q: %w", *req.Status, ErrInvalidInput)
		}
		fields["status"] = *req.Status
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, fmt.Errorf("invalid rental type %q: %w", *req.Type, ErrInvalidInput)
		}
		fields["type"] = *req.Type
	}
	if req.Floor != nil {
		fields["floor"] = *req.Floor
	}
	if req.Rooms != nil {
		fields["rooms"] = *req.Rooms
	}
	if req.Baths != nil {
		fields["baths"] = *req.Baths
	}
	if req.Area != nil {
		fields["area"] = *req.Area
	}

	if len(fields) > 0 {
		if err := s.unitRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update unit: %w", err)
		}
	}
	return s.GetByID(ctx, id)
}
