package domain

import (
	"time"
)

// PlaceholderPhone is stored when a tenant is created implicitly by name
// and no phone number is known.
const PlaceholderPhone = "0000000000"

// Property represents a building whose units are rented out
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	Address   string    `gorm:"type:varchar(500)" json:"address,omitempty"`
	Units     []Unit    `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// UnitStatus represents the occupancy status of a unit
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "AVAILABLE"
	UnitStatusOccupied    UnitStatus = "OCCUPIED"
	UnitStatusMaintenance UnitStatus = "MAINTENANCE"
)

// IsValid checks if the UnitStatus is a valid enum value
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusAvailable, UnitStatusOccupied, UnitStatusMaintenance:
		return true
	}
	return false
}

// RentalType represents how a unit or contract is billed
type RentalType string

const (
	RentalTypeDaily   RentalType = "DAILY"
	RentalTypeMonthly RentalType = "MONTHLY"
)

// IsValid checks if the RentalType is a valid enum value
func (t RentalType) IsValid() bool {
	switch t {
	case RentalTypeDaily, RentalTypeMonthly:
		return true
	}
	return false
}

// Unit represents a rentable unit inside a property
type Unit struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Number     string     `gorm:"type:varchar(50);not null;index:idx_units_number_property" json:"number"`
	Status     UnitStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	Type       RentalType `gorm:"type:varchar(20);not null;default:'MONTHLY'" json:"type"`
	PropertyID uint       `gorm:"not null;index:idx_units_number_property;column:property_id" json:"propertyId"`
	Property   *Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Floor      *int       `json:"floor,omitempty"`
	Rooms      *int       `json:"rooms,omitempty"`
	Baths      *int       `json:"baths,omitempty"`
	Area       *float64   `gorm:"type:decimal(10,2)" json:"area,omitempty"`
	Contracts  []Contract `gorm:"foreignKey:UnitID" json:"contracts,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Tenant represents a person renting one or more units.
// Tenants are created implicitly on first reference by name; the phone
// falls back to PlaceholderPhone when unknown.
type Tenant struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null;index" json:"name"`
	Phone       string     `gorm:"type:varchar(50);not null" json:"phone"`
	Nationality string     `gorm:"type:varchar(100)" json:"nationality,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	Contracts   []Contract `gorm:"foreignKey:TenantID" json:"contracts,omitempty"`
	Invoices    []Invoice  `gorm:"foreignKey:TenantID" json:"invoices,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// ContractStatus represents the lifecycle state of a contract
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusEnded     ContractStatus = "ENDED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// IsValid checks if the ContractStatus is a valid enum value
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusEnded, ContractStatusCancelled:
		return true
	}
	return false
}

// RenewalStatus tracks whether a contract has been superseded by a renewal
type RenewalStatus string

const (
	RenewalStatusNone    RenewalStatus = "NONE"
	RenewalStatusPending RenewalStatus = "PENDING"
	RenewalStatusRenewed RenewalStatus = "RENEWED"
)

// Contract represents a tenancy agreement binding one tenant to one unit
// for a date range, with commercial terms.
type Contract struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	TenantID           uint           `gorm:"not null;index;column:tenant_id" json:"tenantId"`
	Tenant             *Tenant        `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	TenantName         string         `gorm:"type:varchar(200);not null;column:tenant_name" json:"tenantName"`
	UnitID             uint           `gorm:"not null;index;column:unit_id" json:"unitId"`
	Unit               *Unit          `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	StartDate          time.Time      `gorm:"type:date;not null;column:start_date" json:"startDate"`
	EndDate            time.Time      `gorm:"type:date;not null;column:end_date" json:"endDate"`
	Amount             float64        `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	RentAmount         float64        `gorm:"type:decimal(15,2);not null;default:0;column:rent_amount" json:"rentAmount"`
	Deposit            float64        `gorm:"type:decimal(15,2);not null;default:0" json:"deposit"`
	Status             ContractStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	RentalType         RentalType     `gorm:"type:varchar(20);not null;default:'MONTHLY';column:rental_type" json:"rentalType"`
	RenewalStatus      RenewalStatus  `gorm:"type:varchar(20);not null;default:'NONE';column:renewal_status" json:"renewalStatus"`
	RenewedFromID      *uint          `gorm:"index;column:renewed_from_id" json:"renewedFromId,omitempty"`
	EjarContractNumber *string        `gorm:"type:varchar(100);column:ejar_contract_number" json:"ejarContractNumber,omitempty"`
	PaymentMethod      *string        `gorm:"type:varchar(100);column:payment_method" json:"paymentMethod,omitempty"`
	PaymentFrequency   *string        `gorm:"type:varchar(100);column:payment_frequency" json:"paymentFrequency,omitempty"`
	ServicesIncluded   *string        `gorm:"type:varchar(500);column:services_included" json:"servicesIncluded,omitempty"`
	Notes              *string        `gorm:"type:text" json:"notes,omitempty"`
	Invoices           []Invoice      `gorm:"foreignKey:ContractID" json:"invoices,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice represents a single billable or creditable line item.
// A negative amount represents a refund (deposit settlement).
type Invoice struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TenantID   uint          `gorm:"not null;index;column:tenant_id" json:"tenantId"`
	Tenant     *Tenant       `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	ContractID *uint         `gorm:"index;column:contract_id" json:"contractId,omitempty"`
	Contract   *Contract     `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Amount     float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate    time.Time     `gorm:"type:date;not null;index;column:due_date" json:"dueDate"`
	Status     InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Payments   []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCheque   PaymentMethod = "CHEQUE"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid checks if the PaymentMethod is a valid enum value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// Payment represents money received against an invoice
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	InvoiceID uint          `gorm:"not null;index;column:invoice_id" json:"invoiceId"`
	Invoice   *Invoice      `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Amount    float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method    PaymentMethod `gorm:"type:varchar(20);not null;default:'CASH'" json:"method"`
	PaidAt    time.Time     `gorm:"not null;column:paid_at" json:"paidAt"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// ActivityLog is an append-only audit record written as a side effect of
// lifecycle operations. Writes are best effort and must never abort the
// triggering operation.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Description string    `gorm:"type:varchar(1000);not null" json:"description"`
	ContractID  *uint     `gorm:"index;column:contract_id" json:"contractId,omitempty"`
	UserID      *uint     `gorm:"column:user_id" json:"userId,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

// TableName overrides the default table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}
