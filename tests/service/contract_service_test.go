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

func createContractService(db *gorm.DB) *service.ContractService {
	logger := zap.NewNop()
	activityService := service.NewActivityService(repository.NewActivityLogRepository(db), logger)
	return service.NewContractService(
		repository.NewContractRepository(db),
		repository.NewTenantRepository(db),
		repository.NewUnitRepository(db),
		repository.NewInvoiceRepository(db),
		activityService,
		logger,
		db,
	)
}

func floatPtr(v float64) *float64 { return &v }

func TestContractService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "101")

	req := &domain.CreateContractRequest{
		TenantName: "أحمد العتيبي",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.March, 1),
		EndDate:    testutil.Date(2025, time.February, 28),
		Amount:     floatPtr(36000),
		RentAmount: floatPtr(3000),
		Deposit:    floatPtr(2000),
	}

	resp, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp.Contract)
	require.NotNil(t, resp.Invoice)

	assert.Equal(t, domain.ContractStatusActive, resp.Contract.Status)
	assert.Equal(t, 36000.0, resp.Contract.Amount)
	assert.Equal(t, 3000.0, resp.Contract.RentAmount)
	assert.Equal(t, 2000.0, resp.Contract.Deposit)

	// Exactly one first invoice, due on the start date, for the periodic rent
	assert.Equal(t, 3000.0, resp.Invoice.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, resp.Invoice.Status)
	assert.True(t, resp.Invoice.DueDate.Equal(req.StartDate))

	var invoiceCount int64
	db.Model(&domain.Invoice{}).Where("contract_id = ?", resp.Contract.ID).Count(&invoiceCount)
	assert.Equal(t, int64(1), invoiceCount)

	// Tenant created implicitly with the placeholder phone
	var tenant domain.Tenant
	require.NoError(t, db.First(&tenant, resp.Contract.TenantID).Error)
	assert.Equal(t, "أحمد العتيبي", tenant.Name)
	assert.Equal(t, domain.PlaceholderPhone, tenant.Phone)

	// Unit becomes occupied
	var updatedUnit domain.Unit
	require.NoError(t, db.First(&updatedUnit, unit.ID).Error)
	assert.Equal(t, domain.UnitStatusOccupied, updatedUnit.Status)
}

func TestContractService_Create_ReusesTenantByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit1 := testutil.CreateTestUnit(t, db, property.ID, "101")
	unit2 := testutil.CreateTestUnit(t, db, property.ID, "102")
	existing := testutil.CreateTestTenant(t, db, "سالم القحطاني")

	for _, unitID := range []uint{unit1.ID, unit2.ID} {
		_, err := svc.Create(ctx, &domain.CreateContractRequest{
			TenantName: "سالم القحطاني",
			UnitID:     unitID,
			StartDate:  testutil.Date(2024, time.March, 1),
			EndDate:    testutil.Date(2025, time.February, 28),
			RentAmount: floatPtr(2500),
		})
		require.NoError(t, err)
	}

	var tenantCount int64
	db.Model(&domain.Tenant{}).Where("name = ?", "سالم القحطاني").Count(&tenantCount)
	assert.Equal(t, int64(1), tenantCount)

	var contracts []domain.Contract
	db.Where("tenant_id = ?", existing.ID).Find(&contracts)
	assert.Len(t, contracts, 2)
}

func TestContractService_Create_AmountFallbacks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")

	tests := []struct {
		name       string
		amount     *float64
		rentAmount *float64
		wantTotal  float64
		wantRent   float64
	}{
		{"both given", floatPtr(36000), floatPtr(3000), 36000, 3000},
		{"only total", floatPtr(12000), nil, 12000, 12000},
		{"only rent", nil, floatPtr(2000), 2000, 2000},
		{"neither", nil, nil, 0, 0},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := testutil.CreateTestUnit(t, db, property.ID, string(rune('A'+i)))
			resp, err := svc.Create(ctx, &domain.CreateContractRequest{
				TenantName: "نورة الشمري",
				UnitID:     unit.ID,
				StartDate:  testutil.Date(2024, time.January, 1),
				EndDate:    testutil.Date(2024, time.December, 31),
				Amount:     tt.amount,
				RentAmount: tt.rentAmount,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, resp.Contract.Amount)
			assert.Equal(t, tt.wantRent, resp.Contract.RentAmount)
			assert.Equal(t, tt.wantRent, resp.Invoice.Amount)
		})
	}
}

func TestContractService_Create_UnknownUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)

	_, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		TenantName: "أحمد",
		UnitID:     999,
		StartDate:  testutil.Date(2024, time.March, 1),
		EndDate:    testutil.Date(2025, time.February, 28),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	// Nothing should be written
	var tenantCount int64
	db.Model(&domain.Tenant{}).Count(&tenantCount)
	assert.Equal(t, int64(0), tenantCount)
}

func TestContractService_End_RefundDeposit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "201")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "فهد الدوسري",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.January, 1),
		EndDate:    testutil.Date(2024, time.December, 31),
		RentAmount: floatPtr(3000),
		Deposit:    floatPtr(2000),
	})
	require.NoError(t, err)

	endResp, err := svc.End(ctx, resp.Contract.ID, true)
	require.NoError(t, err)

	assert.Equal(t, domain.ContractStatusEnded, endResp.Contract.Status)
	assert.Equal(t, domain.UnitStatusAvailable, endResp.Unit.Status)

	require.NotNil(t, endResp.RefundInvoice)
	assert.Nil(t, endResp.ExitInvoice)
	assert.Equal(t, -2000.0, endResp.RefundInvoice.Amount)
	assert.Equal(t, domain.InvoiceStatusPaid, endResp.RefundInvoice.Status)
}

func TestContractService_End_ForfeitDeposit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "202")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "فهد الدوسري",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.January, 1),
		EndDate:    testutil.Date(2024, time.December, 31),
		RentAmount: floatPtr(3000),
		Deposit:    floatPtr(2000),
	})
	require.NoError(t, err)

	endResp, err := svc.End(ctx, resp.Contract.ID, false)
	require.NoError(t, err)

	require.NotNil(t, endResp.ExitInvoice)
	assert.Nil(t, endResp.RefundInvoice)
	assert.Equal(t, 1000.0, endResp.ExitInvoice.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, endResp.ExitInvoice.Status)
}

func TestContractService_End_NoDeposit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "203")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "فهد الدوسري",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.January, 1),
		EndDate:    testutil.Date(2024, time.December, 31),
		RentAmount: floatPtr(3000),
	})
	require.NoError(t, err)

	// refundDeposit is irrelevant without a deposit
	endResp, err := svc.End(ctx, resp.Contract.ID, true)
	require.NoError(t, err)

	require.NotNil(t, endResp.ExitInvoice)
	assert.Nil(t, endResp.RefundInvoice)
	assert.Equal(t, 3000.0, endResp.ExitInvoice.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, endResp.ExitInvoice.Status)
}

func TestContractService_End_ExactlyOneSettlementInvoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "204")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "فهد الدوسري",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.January, 1),
		EndDate:    testutil.Date(2024, time.December, 31),
		RentAmount: floatPtr(3000),
		Deposit:    floatPtr(500),
	})
	require.NoError(t, err)

	_, err = svc.End(ctx, resp.Contract.ID, false)
	require.NoError(t, err)

	// The first invoice plus one settlement invoice, nothing else
	var count int64
	db.Model(&domain.Invoice{}).Where("contract_id = ?", resp.Contract.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestContractService_End_UnknownContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)

	_, err := svc.End(context.Background(), 42, true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestContractService_Renew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "301")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "خالد الحربي",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2023, time.March, 1),
		EndDate:    testutil.Date(2024, time.February, 29),
		RentAmount: floatPtr(3000),
		Deposit:    floatPtr(1500),
	})
	require.NoError(t, err)

	renewed, err := svc.Renew(ctx, resp.Contract.ID, &domain.RenewContractRequest{
		StartDate: testutil.Date(2024, time.March, 1),
		EndDate:   testutil.Date(2025, time.February, 28),
		Amount:    39000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ContractStatusActive, renewed.Status)
	assert.Equal(t, domain.RenewalStatusPending, renewed.RenewalStatus)
	require.NotNil(t, renewed.RenewedFromID)
	assert.Equal(t, resp.Contract.ID, *renewed.RenewedFromID)
	assert.Equal(t, resp.Contract.TenantID, renewed.TenantID)
	assert.Equal(t, 1500.0, renewed.Deposit)

	// Old contract retired
	var old domain.Contract
	require.NoError(t, db.First(&old, resp.Contract.ID).Error)
	assert.Equal(t, domain.ContractStatusEnded, old.Status)
	assert.Equal(t, domain.RenewalStatusRenewed, old.RenewalStatus)

	// Seed invoice for the renewal period
	var seed domain.Invoice
	require.NoError(t, db.Where("contract_id = ?", renewed.ID).First(&seed).Error)
	assert.Equal(t, 39000.0, seed.Amount)
	assert.Equal(t, domain.InvoiceStatusPending, seed.Status)
}

func TestContractService_Renew_AlreadyRenewed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "302")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "خالد الحربي",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2023, time.March, 1),
		EndDate:    testutil.Date(2024, time.February, 29),
		RentAmount: floatPtr(3000),
	})
	require.NoError(t, err)

	req := &domain.RenewContractRequest{
		StartDate: testutil.Date(2024, time.March, 1),
		EndDate:   testutil.Date(2025, time.February, 28),
		Amount:    36000,
	}
	_, err = svc.Renew(ctx, resp.Contract.ID, req)
	require.NoError(t, err)

	_, err = svc.Renew(ctx, resp.Contract.ID, req)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestContractService_Delete_ReactivatesRenewedParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "303")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "خالد الحربي",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2023, time.March, 1),
		EndDate:    testutil.Date(2024, time.February, 29),
		RentAmount: floatPtr(3000),
	})
	require.NoError(t, err)

	renewed, err := svc.Renew(ctx, resp.Contract.ID, &domain.RenewContractRequest{
		StartDate: testutil.Date(2024, time.March, 1),
		EndDate:   testutil.Date(2025, time.February, 28),
		Amount:    36000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, renewed.ID))

	// Deleting the renewal brings the parent back
	var parent domain.Contract
	require.NoError(t, db.First(&parent, resp.Contract.ID).Error)
	assert.Equal(t, domain.ContractStatusActive, parent.Status)
	assert.Equal(t, domain.RenewalStatusPending, parent.RenewalStatus)

	err = db.First(&domain.Contract{}, renewed.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContractService_Update_PartialFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createContractService(db)
	ctx := context.Background()

	property := testutil.CreateTestProperty(t, db, "برج الريان")
	unit := testutil.CreateTestUnit(t, db, property.ID, "401")
	resp, err := svc.Create(ctx, &domain.CreateContractRequest{
		TenantName: "منصور الغامدي",
		UnitID:     unit.ID,
		StartDate:  testutil.Date(2024, time.January, 1),
		EndDate:    testutil.Date(2024, time.December, 31),
		RentAmount: floatPtr(3000),
		Notes:      "عقد أولي",
	})
	require.NoError(t, err)

	notes := "تم تعديل الشروط"
	updated, err := svc.Update(ctx, resp.Contract.ID, &domain.UpdateContractRequest{
		RentAmount: floatPtr(3500),
		Notes:      &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, 3500.0, updated.RentAmount)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	// Untouched fields keep their values
	assert.Equal(t, domain.ContractStatusActive, updated.Status)
	assert.True(t, updated.StartDate.Equal(resp.Contract.StartDate))

	// No invoice side effects on update
	var count int64
	db.Model(&domain.Invoice{}).Where("contract_id = ?", resp.Contract.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
