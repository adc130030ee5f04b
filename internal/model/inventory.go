package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a kind of spare part; stock lives in per-lot batches
type InventoryItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	OutOfStockLevel int            `gorm:"type:int;not null;default:0" json:"out_of_stock_level"` // reorder point
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// InventoryBatch is a priced lot of an item. Quantity is the REMAINING amount,
// decremented as jobs consume from the lot, and must never go negative.
type InventoryBatch struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item         *InventoryItem  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"`
	PurchaseDate time.Time       `gorm:"type:date;not null" json:"purchase_date"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InventoryPurchase is the append-only intake ledger. Rows record a batch's
// original quantity and price and are never updated or deleted, even when the
// batch itself is edited later.
type InventoryPurchase struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"batch_id"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	PurchaseDate time.Time       `gorm:"type:date;not null" json:"purchase_date"`
	CreatedAt    time.Time       `json:"created_at"`
}
