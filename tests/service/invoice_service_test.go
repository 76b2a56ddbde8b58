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

func createInvoiceService(db *gorm.DB) *service.InvoiceService {
	logger := zap.NewNop()
	activityService := service.NewActivityService(repository.NewActivityLogRepository(db), logger)
	return service.NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewTenantRepository(db),
		activityService,
		logger,
		db,
	)
}

func TestInvoiceService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)
	ctx := context.Background()

	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")

	due := testutil.Date(2024, time.June, 1)
	invoice, err := svc.Create(ctx, &domain.CreateInvoiceRequest{
		TenantID: tenant.ID,
		Amount:   500,
		DueDate:  &due,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.Equal(t, 500.0, invoice.Amount)
	assert.Nil(t, invoice.ContractID)
	assert.True(t, invoice.DueDate.Equal(due))
}

func TestInvoiceService_Create_UnknownTenant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)

	_, err := svc.Create(context.Background(), &domain.CreateInvoiceRequest{
		TenantID: 99,
		Amount:   500,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInvoiceService_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)
	ctx := context.Background()

	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")
	invoice, err := svc.Create(ctx, &domain.CreateInvoiceRequest{TenantID: tenant.ID, Amount: 500})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, updated.Status)

	_, err = svc.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatus("BOGUS"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestInvoiceService_RecordPayment_Progression(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)
	ctx := context.Background()

	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")
	invoice, err := svc.Create(ctx, &domain.CreateInvoiceRequest{TenantID: tenant.ID, Amount: 3000})
	require.NoError(t, err)

	first := testutil.Date(2024, time.June, 5)
	second := testutil.Date(2024, time.July, 5)

	// Partial payment
	after, err := svc.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: 1000,
		PaidAt: &first,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, after.Status)
	assert.Equal(t, domain.PaymentMethodCash, after.Payments[0].Method)

	// Second payment covers the remainder
	after, err = svc.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: 2000,
		Method: domain.PaymentMethodTransfer,
		PaidAt: &second,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, after.Status)
	assert.Len(t, after.Payments, 2)

	// Newest payment first
	payments, err := svc.ListPayments(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.PaymentMethodTransfer, payments[0].Method)
	assert.Equal(t, domain.PaymentMethodCash, payments[1].Method)
}

func TestInvoiceService_RecordPayment_Overpayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)
	ctx := context.Background()

	tenant := testutil.CreateTestTenant(t, db, "أحمد العتيبي")
	invoice, err := svc.Create(ctx, &domain.CreateInvoiceRequest{TenantID: tenant.ID, Amount: 1000})
	require.NoError(t, err)

	after, err := svc.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{Amount: 1500})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, after.Status)
}

func TestInvoiceService_RecordPayment_UnknownInvoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createInvoiceService(db)

	_, err := svc.RecordPayment(context.Background(), 77, &domain.RecordPaymentRequest{Amount: 100})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
