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

// PropertyService is the thin management surface for properties
type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewPropertyService(propertyRepo *repository.PropertyRepository, logger *zap.Logger) *PropertyService {
	return &PropertyService{propertyRepo: propertyRepo, logger: logger}
}

func (s *PropertyService) Create(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	property := &domain.Property{Name: req.Name, Address: req.Address}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) GetByID(ctx context.Context, id uint) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	return s.propertyRepo.List(ctx)
}
