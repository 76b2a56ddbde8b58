package testutil

import (
	"testing"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// Each call returns a fresh, isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.Property{},
		&domain.Unit{},
		&domain.Tenant{},
		&domain.Contract{},
		&domain.Invoice{},
		&domain.Payment{},
		&domain.ActivityLog{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	return db
}

// CreateTestProperty creates a property
func CreateTestProperty(t *testing.T, db *gorm.DB, name string) *domain.Property {
	property := &domain.Property{Name: name, Address: "شارع الملك فهد"}
	require.NoError(t, db.Create(property).Error)
	return property
}

// CreateTestUnit creates an available monthly unit in the given property
func CreateTestUnit(t *testing.T, db *gorm.DB, propertyID uint, number string) *domain.Unit {
	unit := &domain.Unit{
		Number:     number,
		PropertyID: propertyID,
		Status:     domain.UnitStatusAvailable,
		Type:       domain.RentalTypeMonthly,
	}
	require.NoError(t, db.Create(unit).Error)
	return unit
}

// CreateTestTenant creates a tenant
func CreateTestTenant(t *testing.T, db *gorm.DB, name string) *domain.Tenant {
	tenant := &domain.Tenant{Name: name, Phone: "0551234567"}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// CreateTestContract creates an active contract covering today
func CreateTestContract(t *testing.T, db *gorm.DB, tenantID, unitID uint, rent float64) *domain.Contract {
	now := time.Now().UTC()
	contract := &domain.Contract{
		TenantID:      tenantID,
		TenantName:    "مستأجر تجريبي",
		UnitID:        unitID,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(1, 0, 0),
		Amount:        rent * 12,
		RentAmount:    rent,
		Status:        domain.ContractStatusActive,
		RentalType:    domain.RentalTypeMonthly,
		RenewalStatus: domain.RenewalStatusNone,
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

// Date builds a UTC midnight timestamp
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
