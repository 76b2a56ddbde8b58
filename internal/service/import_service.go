package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportService ingests operator-maintained CSV sheets with Arabic or
// English headers. Imports are best effort: a bad row is reported in the
// result and never aborts the rest of the file.
type ImportService struct {
	propertyRepo *repository.PropertyRepository
	unitRepo     *repository.UnitRepository
	tenantRepo   *repository.TenantRepository
	contractRepo *repository.ContractRepository
	invoiceRepo  *repository.InvoiceRepository
	activity     *ActivityService
	logger       *zap.Logger
	db           *gorm.DB
}

func NewImportService(
	propertyRepo *repository.PropertyRepository,
	unitRepo *repository.UnitRepository,
	tenantRepo *repository.TenantRepository,
	contractRepo *repository.ContractRepository,
	invoiceRepo *repository.InvoiceRepository,
	activity *ActivityService,
	logger *zap.Logger,
	db *gorm.DB,
) *ImportService {
	return &ImportService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		activity:     activity,
		logger:       logger,
		db:           db,
	}
}

// ImportUnitsCsv upserts units from a sheet keyed by unit number, scoped
// to a property when the sheet names one. Creating a unit requires the
// property column; updates touch only the columns the sheet carries.
func (s *ImportService) ImportUnitsCsv(ctx context.Context, text string) (*domain.ImportResult, error) {
	rows := parseCsv(text)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	header := cleanHeader(rows[0])
	rows = rows[1:]

	iProp := headerIndex(header, "property", "العقار")
	iUnit := headerIndex(header, "unit", "الوحدة")
	iStatus := headerIndex(header, "status", "الحالة")
	iType := headerIndex(header, "type", "النوع")
	iFloor := headerIndex(header, "floor", "الدور")
	iRooms := headerIndex(header, "rooms", "الغرف")
	iBaths := headerIndex(header, "baths", "الحمامات")
	iArea := headerIndex(header, "area", "المساحة")
	if iUnit < 0 {
		return nil, ErrMissingUnitColumn
	}

	result := &domain.ImportResult{Errors: []string{}}

	for _, row := range rows {
		unitNumber := cell(row, iUnit)
		if unitNumber == "" {
			result.Errors = append(result.Errors, "سطر بدون رقم/اسم وحدة")
			continue
		}

		var propertyID *uint
		if propName := cell(row, iProp); propName != "" {
			property, err := s.propertyRepo.FindByName(ctx, propName)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Errors = append(result.Errors, fmt.Sprintf("عقار غير موجود: %s", propName))
					continue
				}
				return nil, fmt.Errorf("failed to look up property: %w", err)
			}
			propertyID = &property.ID
		}

		status := normalizeUnitStatus(cell(row, iStatus))
		rentalType := domain.RentalType("")
		if v := cell(row, iType); v != "" {
			rentalType = normalizeRentalType(v)
		}
		floor := parseLooseInt(cell(row, iFloor))
		roomCount := parseLooseInt(cell(row, iRooms))
		baths := parseLooseInt(cell(row, iBaths))
		area := parseLooseFloat(cell(row, iArea))

		existing, err := s.unitRepo.FindByNumber(ctx, unitNumber, propertyID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up unit %s: %w", unitNumber, err)
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if propertyID == nil {
				result.Errors = append(result.Errors, fmt.Sprintf("لا يمكن إنشاء وحدة %s بدون عمود العقار", unitNumber))
				continue
			}
			if status == "" {
				status = domain.UnitStatusAvailable
			}
			if rentalType == "" {
				rentalType = domain.RentalTypeMonthly
			}
			unit := &domain.Unit{
				Number:     unitNumber,
				PropertyID: *propertyID,
				Status:     status,
				Type:       rentalType,
				Floor:      floor,
				Rooms:      roomCount,
				Baths:      baths,
				Area:       area,
			}
			if err := s.unitRepo.Create(ctx, unit); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("تعذر إنشاء الوحدة %s: %v", unitNumber, err))
				continue
			}
			result.Imported++
			continue
		}

		fields := map[string]interface{}{}
		if status != "" {
			fields["status"] = status
		}
		if rentalType != "" {
			fields["type"] = rentalType
		}
		if floor != nil {
			fields["floor"] = *floor
		}
		if roomCount != nil {
			fields["rooms"] = *roomCount
		}
		if baths != nil {
			fields["baths"] = *baths
		}
		if area != nil {
			fields["area"] = *area
		}
		if len(fields) > 0 {
			if err := s.unitRepo.UpdateFields(ctx, existing.ID, fields); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("تعذر تحديث الوحدة %s: %v", unitNumber, err))
				continue
			}
		}
		result.Updated++
	}

	s.activity.Log(ctx, ActionCsvImport,
		fmt.Sprintf("استيراد وحدات من CSV: %d جديدة، %d محدثة، %d أخطاء",
			result.Imported, result.Updated, len(result.Errors)),
		nil, nil)

	return result, nil
}

// ImportContractsCsv ingests a tenancy sheet: one contract plus one seed
// invoice per occupied row, with the unit flipped to OCCUPIED. Rows whose
// tenant cell carries the vacancy marker are skipped silently. Each row is
// written in its own transaction so a fault stays contained to that row.
func (s *ImportService) ImportContractsCsv(ctx context.Context, text string, propertyID *uint) (*domain.ImportResult, error) {
	rows := parseCsv(text)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	header := cleanHeader(rows[0])
	rows = rows[1:]

	iName := headerIndex(header, "اسم النزيل", "النزيل", "name")
	iRental := headerIndex(header, "النوع", "شهري - يومي", "rental")
	iUnit := headerIndex(header, "رقم الغرفة", "الوحدة", "room", "unit")
	iRent := headerIndex(header, "الإيجار", "ايجار الغرفة (المبالغ المسددة)", "rent")
	iStart := headerIndex(header, "تاريخ الدخول", "start")
	iEnd := headerIndex(header, "تاريخ الخروج", "end")
	iPayStatus := headerIndex(header, "السداد", "حالة السداد")
	iPayDate := headerIndex(header, "تاريخ السداد", "payment date")
	iPayType := headerIndex(header, "طريقة السداد", "نوع السداد كاش / حوالة")
	iDeposit := headerIndex(header, "التأمين", "التامين", "deposit")
	iNotes := headerIndex(header, "ملاحظات", "notes")
	iCStatus := headerIndex(header, "حالة العقد", "contract status")
	iPhone := headerIndex(header, "رقم الجوال", "الهاتف", "phone")

	result := &domain.ImportResult{Errors: []string{}}

	for _, row := range rows {
		name := cell(row, iName)
		if name == "" || isVacancyRow(name) {
			continue
		}

		unitNumber := cell(row, iUnit)
		if unitNumber == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("سطر بدون رقم غرفة للنزيل %s", name))
			continue
		}

		unit, err := s.unitRepo.FindByNumber(ctx, unitNumber, propertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("الوحدة غير موجودة: %s", unitNumber))
				continue
			}
			return nil, fmt.Errorf("failed to look up unit %s: %w", unitNumber, err)
		}

		rentalType := normalizeRentalType(cell(row, iRental))
		rent := parseLooseNumber(cell(row, iRent))
		deposit := parseLooseNumber(cell(row, iDeposit))
		contractStatus := normalizeContractStatus(cell(row, iCStatus))

		startDate := parseLooseDate(cell(row, iStart))
		if startDate.IsZero() {
			startDate = time.Now().UTC()
		}
		endDate := parseLooseDate(cell(row, iEnd))
		if endDate.IsZero() {
			endDate = startDate.AddDate(0, 0, 30)
		}

		invoiceStatus := domain.InvoiceStatusPending
		if isPaidToken(cell(row, iPayStatus)) {
			invoiceStatus = domain.InvoiceStatusPaid
		}
		dueDate := parseLooseDate(cell(row, iPayDate))
		if dueDate.IsZero() {
			dueDate = startDate
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			tenant, err := findOrCreateTenant(ctx, s.tenantRepo.WithTx(tx), name, cell(row, iPhone))
			if err != nil {
				return err
			}

			contract := &domain.Contract{
				TenantID:      tenant.ID,
				TenantName:    name,
				UnitID:        unit.ID,
				StartDate:     startDate,
				EndDate:       endDate,
				Amount:        rent,
				RentAmount:    rent,
				Deposit:       deposit,
				Status:        contractStatus,
				RentalType:    rentalType,
				RenewalStatus: domain.RenewalStatusNone,
				PaymentMethod: normalizeString(cell(row, iPayType)),
				Notes:         normalizeString(cell(row, iNotes)),
			}
			if err := s.contractRepo.WithTx(tx).Create(ctx, contract); err != nil {
				return fmt.Errorf("failed to create contract: %w", err)
			}

			invoice := &domain.Invoice{
				TenantID:   tenant.ID,
				ContractID: &contract.ID,
				Amount:     rent,
				DueDate:    dueDate,
				Status:     invoiceStatus,
			}
			if err := s.invoiceRepo.WithTx(tx).Create(ctx, invoice); err != nil {
				return fmt.Errorf("failed to create seed invoice: %w", err)
			}

			return s.unitRepo.WithTx(tx).UpdateStatus(ctx, unit.ID, domain.UnitStatusOccupied)
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("تعذر استيراد سطر النزيل %s: %v", name, err))
			continue
		}
		result.Imported++
	}

	s.activity.Log(ctx, ActionCsvImport,
		fmt.Sprintf("استيراد عقود من CSV: %d عقد، %d أخطاء", result.Imported, len(result.Errors)),
		nil, nil)

	return result, nil
}
