package service

import (
	"context"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
)

// Audit action names written to the activity log
const (
	ActionContractCreate      = "CONTRACT_CREATE"
	ActionContractEnd         = "CONTRACT_END"
	ActionContractRenewal     = "CONTRACT_RENEWAL"
	ActionInvoiceCreate       = "INVOICE_CREATE"
	ActionInvoiceStatusUpdate = "INVOICE_STATUS_UPDATE"
	ActionPaymentRecord       = "PAYMENT_RECORD"
	ActionCsvImport           = "CSV_IMPORT"
)

// ActivityService writes append-only audit entries. Failures are logged
// and swallowed so that audit problems never abort the operation that
// triggered them.
type ActivityService struct {
	activityRepo *repository.ActivityLogRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Log records an audit entry. Descriptions are truncated to the column
// limit. The error, if any, is swallowed.
func (s *ActivityService) Log(ctx context.Context, action, description string, contractID *uint, userID *uint) {
	if len(description) > 1000 {
		description = description[:1000]
	}
	entry := &domain.ActivityLog{
		Action:      action,
		Description: description,
		ContractID:  contractID,
		UserID:      userID,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write activity log",
			zap.String("action", action),
			zap.Error(err))
	}
}

// Recent returns the newest audit entries
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.ListRecent(ctx, limit)
}
