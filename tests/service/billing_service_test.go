package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"github.com/durar-app/rental-api/internal/service"
	"github.com/durar-app/rental-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createBillingService(db *gorm.DB) *service.BillingService {
	logger := zap.NewNop()
	activityService := service.NewActivityService(repository.NewActivityLogRepository(db), logger)
	return service.NewBillingService(
		repository.NewContractRepository(db),
		repository.NewInvoiceRepository(db),
		activityService,
		logger,
	)
}

func billingFixture(t *testing.T, db *gorm.DB, rent float64) *domain.Contract {
	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "101")
	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")
	return testutil.CreateTestContract(t, db, tenant.ID, unit.ID, rent)
}

func TestBillingService_RunMonthlyInvoices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	contract := billingFixture(t, db, 3000)
	now := time.Now().UTC()

	created, err := svc.RunMonthlyInvoices(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var invoice domain.Invoice
	require.NoError(t, db.Where("contract_id = ?", contract.ID).First(&invoice).Error)
	assert.Equal(t, 3000.0, invoice.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)

	firstOfMonth := testutil.Date(now.Year(), now.Month(), 1)
	assert.True(t, invoice.DueDate.Equal(firstOfMonth))
}

func TestBillingService_RunMonthlyInvoices_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	contract := billingFixture(t, db, 3000)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, err := svc.RunMonthlyInvoices(ctx, now)
		require.NoError(t, err)
	}

	var count int64
	db.Model(&domain.Invoice{}).Where("contract_id = ?", contract.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBillingService_RunMonthlyInvoices_SkipsOutOfPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")
	now := time.Now().UTC()

	// Active but its period is entirely in the past
	expiredUnit := testutil.CreateTestUnit(t, db, property.ID, "102")
	expired := &domain.Contract{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		UnitID:     expiredUnit.ID,
		StartDate:  now.AddDate(-2, 0, 0),
		EndDate:    now.AddDate(-1, 0, 0),
		RentAmount: 1000,
		Status:     domain.ContractStatusActive,
		RentalType: domain.RentalTypeMonthly,
	}
	require.NoError(t, db.Create(expired).Error)

	// Ended contracts are never billed
	endedUnit := testutil.CreateTestUnit(t, db, property.ID, "103")
	ended := &domain.Contract{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		UnitID:     endedUnit.ID,
		StartDate:  now.AddDate(0, -6, 0),
		EndDate:    now.AddDate(0, 6, 0),
		RentAmount: 1000,
		Status:     domain.ContractStatusEnded,
		RentalType: domain.RentalTypeMonthly,
	}
	require.NoError(t, db.Create(ended).Error)

	created, err := svc.RunMonthlyInvoices(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	db.Model(&domain.Invoice{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBillingService_RunMonthlyInvoices_WindowPerMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	contract := billingFixture(t, db, 3000)
	now := time.Now().UTC()

	// An invoice due last month does not satisfy this month's cycle
	previous := &domain.Invoice{
		TenantID:   contract.TenantID,
		ContractID: &contract.ID,
		Amount:     3000,
		DueDate:    testutil.Date(now.Year(), now.Month(), 1).AddDate(0, -1, 0),
		Status:     domain.InvoiceStatusPaid,
	}
	require.NoError(t, db.Create(previous).Error)

	created, err := svc.RunMonthlyInvoices(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestBillingService_RunOverdueSweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	contract := billingFixture(t, db, 3000)
	now := time.Now().UTC()
	today := testutil.Date(now.Year(), now.Month(), now.Day())

	invoices := []domain.Invoice{
		{TenantID: contract.TenantID, ContractID: &contract.ID, Amount: 3000, DueDate: today.AddDate(0, 0, -10), Status: domain.InvoiceStatusPending},
		{TenantID: contract.TenantID, ContractID: &contract.ID, Amount: 3000, DueDate: today, Status: domain.InvoiceStatusPending},
		{TenantID: contract.TenantID, ContractID: &contract.ID, Amount: 3000, DueDate: today.AddDate(0, 0, -5), Status: domain.InvoiceStatusPaid},
		{TenantID: contract.TenantID, ContractID: &contract.ID, Amount: 3000, DueDate: today.AddDate(0, 0, 5), Status: domain.InvoiceStatusPending},
	}
	for i := range invoices {
		require.NoError(t, db.Create(&invoices[i]).Error)
	}

	flipped, err := svc.RunOverdueSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	var reloaded []domain.Invoice
	require.NoError(t, db.Order("id").Find(&reloaded).Error)
	assert.Equal(t, domain.InvoiceStatusOverdue, reloaded[0].Status)
	// Due today is not overdue yet
	assert.Equal(t, domain.InvoiceStatusPending, reloaded[1].Status)
	// Paid and future invoices are untouched
	assert.Equal(t, domain.InvoiceStatusPaid, reloaded[2].Status)
	assert.Equal(t, domain.InvoiceStatusPending, reloaded[3].Status)
}

func TestBillingService_RunOverdueSweep_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBillingService(db)
	ctx := context.Background()

	contract := billingFixture(t, db, 3000)
	now := time.Now().UTC()
	today := testutil.Date(now.Year(), now.Month(), now.Day())

	invoice := &domain.Invoice{
		TenantID:   contract.TenantID,
		ContractID: &contract.ID,
		Amount:     3000,
		DueDate:    today.AddDate(0, 0, -3),
		Status:     domain.InvoiceStatusPending,
	}
	require.NoError(t, db.Create(invoice).Error)

	flipped, err := svc.RunOverdueSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	flipped, err = svc.RunOverdueSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), flipped)
}
