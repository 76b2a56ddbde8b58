package domain

import "time"

// CreateContractRequest is the input for creating a contract.
// Amount is the total contract value; RentAmount the periodic rent.
// When only one of the two is given the other is derived from it.
type CreateContractRequest struct {
	TenantName         string     `json:"tenantName" validate:"required,max=200"`
	UnitID             uint       `json:"unitId" validate:"required"`
	StartDate          time.Time  `json:"startDate" validate:"required"`
	EndDate            time.Time  `json:"endDate" validate:"required"`
	Amount             *float64   `json:"amount,omitempty"`
	RentAmount         *float64   `json:"rentAmount,omitempty"`
	RentalType         RentalType `json:"rentalType,omitempty"`
	Deposit            *float64   `json:"deposit,omitempty"`
	EjarContractNumber string     `json:"ejarContractNumber,omitempty"`
	PaymentMethod      string     `json:"paymentMethod,omitempty"`
	PaymentFrequency   string     `json:"paymentFrequency,omitempty"`
	ServicesIncluded   string     `json:"servicesIncluded,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

// UpdateContractRequest carries a partial contract update. Nil fields are
// left untouched.
type UpdateContractRequest struct {
	StartDate          *time.Time      `json:"startDate,omitempty"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	Amount             *float64        `json:"amount,omitempty"`
	RentAmount         *float64        `json:"rentAmount,omitempty"`
	Deposit            *float64        `json:"deposit,omitempty"`
	RentalType         *RentalType     `json:"rentalType,omitempty"`
	Status             *ContractStatus `json:"status,omitempty"`
	EjarContractNumber *string         `json:"ejarContractNumber,omitempty"`
	PaymentMethod      *string         `json:"paymentMethod,omitempty"`
	PaymentFrequency   *string         `json:"paymentFrequency,omitempty"`
	ServicesIncluded   *string         `json:"servicesIncluded,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
}

// CreateContractResponse returns the created contract with its first invoice
type CreateContractResponse struct {
	Contract *Contract `json:"contract"`
	Invoice  *Invoice  `json:"invoice"`
}

// EndContractRequest controls deposit settlement when terminating a contract
type EndContractRequest struct {
	RefundDeposit *bool `json:"refundDeposit,omitempty"`
}

// EndContractResponse returns the terminated contract, the freed unit and
// whichever settlement invoice was produced (the other is nil).
type EndContractResponse struct {
	Contract      *Contract `json:"contract"`
	Unit          *Unit     `json:"unit"`
	ExitInvoice   *Invoice  `json:"exitInvoice"`
	RefundInvoice *Invoice  `json:"refundInvoice"`
}

// RenewContractRequest is the input for atomically renewing a contract
type RenewContractRequest struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
}

// CreateUnitRequest is the input for creating a unit
type CreateUnitRequest struct {
	Number     string     `json:"number" validate:"required,max=50"`
	PropertyID uint       `json:"propertyId" validate:"required"`
	Status     UnitStatus `json:"status,omitempty"`
	Type       RentalType `json:"type,omitempty"`
	Floor      *int       `json:"floor,omitempty"`
	Rooms      *int       `json:"rooms,omitempty"`
	Baths      *int       `json:"baths,omitempty"`
	Area       *float64   `json:"area,omitempty"`
}

// UpdateUnitRequest carries a partial unit update
type UpdateUnitRequest struct {
	Number *string     `json:"number,omitempty"`
	Status *UnitStatus `json:"status,omitempty"`
	Type   *RentalType `json:"type,omitempty"`
	Floor  *int        `json:"floor,omitempty"`
	Rooms  *int        `json:"rooms,omitempty"`
	Baths  *int        `json:"baths,omitempty"`
	Area   *float64    `json:"area,omitempty"`
}

// CreatePropertyRequest is the input for creating a property
type CreatePropertyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address,omitempty"`
}

// CreateInvoiceRequest is the input for a manually created invoice
type CreateInvoiceRequest struct {
	TenantID   uint          `json:"tenantId" validate:"required"`
	ContractID *uint         `json:"contractId,omitempty"`
	Amount     float64       `json:"amount" validate:"required"`
	DueDate    *time.Time    `json:"dueDate,omitempty"`
	Status     InvoiceStatus `json:"status,omitempty"`
}

// UpdateInvoiceStatusRequest carries a manual invoice status transition
type UpdateInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status" validate:"required"`
}

// RecordPaymentRequest is the input for recording a payment on an invoice
type RecordPaymentRequest struct {
	Amount float64       `json:"amount" validate:"required,gt=0"`
	Method PaymentMethod `json:"method,omitempty"`
	PaidAt *time.Time    `json:"paidAt,omitempty"`
}

// ImportResult reports the outcome of a best-effort CSV import. Rows that
// fail are collected in Errors and never abort the rest of the file.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
