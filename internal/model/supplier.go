package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotationStatus enum constants
const (
	QuotationPending  = "pending"
	QuotationApproved = "approved"
	QuotationRejected = "rejected"
)

// OrderStatus enum constants. Monotonic: pending -> confirmed -> received;
// rejected is terminal.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderRejected  = "rejected"
	OrderReceived  = "received"
)

// Supplier provides inventory items via quotations and orders
type Supplier struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Address   string          `gorm:"type:text" json:"address"`
	Phones    []SupplierPhone `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"phones"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// SupplierPhone is a phone number side table; numbers are unique per table only
type SupplierPhone struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Number     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}

// SupplierQuotation is a supplier's offered unit price for an item,
// subject to shop approval
type SupplierQuotation struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *InventoryItem  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InventoryOrder is a purchase request referencing a quotation.
// Receiving an order does not itself create an inventory batch; intake
// remains a manual follow-up action.
type InventoryOrder struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID uuid.UUID          `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Quotation   *SupplierQuotation `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`
	SupplierID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier    *Supplier          `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Quantity    int                `gorm:"type:int;not null" json:"quantity"`
	Status      string             `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
