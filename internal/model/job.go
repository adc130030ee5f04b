package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobStatus enum constants. Transitions:
// pending -> on progress -> completed | cancelled, completed -> paid.
const (
	JobStatusPending    = "pending"
	JobStatusOnProgress = "on progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
	JobStatusPaid       = "paid"
)

// Job is the central workflow entity; its status transitions drive invoice eligibility
type Job struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReceiveDate  time.Time  `gorm:"type:date;not null" json:"receive_date"`
	HandoverDate *time.Time `gorm:"type:date" json:"handover_date"`
	Rating       *int       `gorm:"type:int" json:"rating"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	Warranty     bool       `gorm:"default:false" json:"warranty"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer     *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee     *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// JobUsedInventory records how much of a specific batch a job consumed.
// Total is a point-in-time snapshot (batch unit price x quantity at consumption);
// it is never recomputed when the batch price is edited afterwards.
type JobUsedInventory struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_job_item_batch" json:"job_id"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_job_item_batch" json:"item_id"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_job_item_batch" json:"batch_id"`
	Item         *InventoryItem  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Batch        *InventoryBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	QuantityUsed int             `gorm:"type:int;not null" json:"quantity_used"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
