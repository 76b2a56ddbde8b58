package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"github.com/durar-app/rental-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInvoice(t *testing.T, db *gorm.DB, tenantID uint, contractID *uint, status domain.InvoiceStatus, due time.Time) *domain.Invoice {
	t.Helper()
	invoice := &domain.Invoice{
		TenantID:   tenantID,
		ContractID: contractID,
		Amount:     1000,
		Status:     status,
		DueDate:    due,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestInvoiceRepository_ExistsForContractInWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الدرر")
	unit := testutil.CreateTestUnit(t, db, property.ID, "101")
	tenant := testutil.CreateTestTenant(t, db, "سالم الدوسري")
	contract := testutil.CreateTestContract(t, db, tenant.ID, unit.ID, 3000)

	from := testutil.Date(2024, time.March, 1)
	to := from.AddDate(0, 1, 0)

	exists, err := repo.ExistsForContractInWindow(ctx, contract.ID, from, to)
	require.NoError(t, err)
	assert.False(t, exists)

	// Due date on the window's first day counts
	seedInvoice(t, db, tenant.ID, &contract.ID, domain.InvoiceStatusPending, from)
	exists, err = repo.ExistsForContractInWindow(ctx, contract.ID, from, to)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvoiceRepository_ExistsForContractInWindow_ExclusiveUpperBound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الدرر")
	unit := testutil.CreateTestUnit(t, db, property.ID, "101")
	tenant := testutil.CreateTestTenant(t, db, "سالم الدوسري")
	contract := testutil.CreateTestContract(t, db, tenant.ID, unit.ID, 3000)

	from := testutil.Date(2024, time.March, 1)
	to := from.AddDate(0, 1, 0)

	// Invoices just outside the window on either side
	seedInvoice(t, db, tenant.ID, &contract.ID, domain.InvoiceStatusPending, from.Add(-time.Second))
	seedInvoice(t, db, tenant.ID, &contract.ID, domain.InvoiceStatusPending, to)

	exists, err := repo.ExistsForContractInWindow(ctx, contract.ID, from, to)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvoiceRepository_ExistsForContractInWindow_IgnoresOtherContracts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الدرر")
	unitA := testutil.CreateTestUnit(t, db, property.ID, "101")
	unitB := testutil.CreateTestUnit(t, db, property.ID, "102")
	tenant := testutil.CreateTestTenant(t, db, "سالم الدوسري")
	contractA := testutil.CreateTestContract(t, db, tenant.ID, unitA.ID, 3000)
	contractB := testutil.CreateTestContract(t, db, tenant.ID, unitB.ID, 3000)

	from := testutil.Date(2024, time.March, 1)
	to := from.AddDate(0, 1, 0)

	seedInvoice(t, db, tenant.ID, &contractB.ID, domain.InvoiceStatusPending, from.AddDate(0, 0, 10))

	exists, err := repo.ExistsForContractInWindow(ctx, contractA.ID, from, to)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvoiceRepository_MarkOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	tenant := testutil.CreateTestTenant(t, db, "سالم الدوسري")

	today := testutil.Date(2024, time.June, 15)
	past := seedInvoice(t, db, tenant.ID, nil, domain.InvoiceStatusPending, today.AddDate(0, 0, -5))
	dueToday := seedInvoice(t, db, tenant.ID, nil, domain.InvoiceStatusPending, today)
	paid := seedInvoice(t, db, tenant.ID, nil, domain.InvoiceStatusPaid, today.AddDate(0, 0, -5))

	flipped, err := repo.MarkOverdue(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	var got domain.Invoice
	require.NoError(t, db.First(&got, past.ID).Error)
	assert.Equal(t, domain.InvoiceStatusOverdue, got.Status)

	got = domain.Invoice{}
	require.NoError(t, db.First(&got, dueToday.ID).Error)
	assert.Equal(t, domain.InvoiceStatusPending, got.Status)

	got = domain.Invoice{}
	require.NoError(t, db.First(&got, paid.ID).Error)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
}

func TestInvoiceRepository_DeletePendingByContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الدرر")
	unit := testutil.CreateTestUnit(t, db, property.ID, "101")
	tenant := testutil.CreateTestTenant(t, db, "سالم الدوسري")
	contract := testutil.CreateTestContract(t, db, tenant.ID, unit.ID, 3000)

	due := testutil.Date(2024, time.March, 1)
	seedInvoice(t, db, tenant.ID, &contract.ID, domain.InvoiceStatusPending, due)
	kept := seedInvoice(t, db, tenant.ID, &contract.ID, domain.InvoiceStatusPaid, due)

	require.NoError(t, repo.DeletePendingByContract(ctx, contract.ID))

	var remaining []domain.Invoice
	require.NoError(t, db.Where("contract_id = ?", contract.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}
