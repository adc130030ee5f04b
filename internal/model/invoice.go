package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the final financial document for a job. PartsCost is the sum of
// the job's consumption snapshots, TotalAmount = PartsCost + LabourCost.
// Invoices are immutable once created; there is no update endpoint and no
// UpdatedAt column.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	JobID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Job         *Job            `gorm:"foreignKey:JobID" json:"job,omitempty"`
	PartsCost   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"parts_cost"`
	LabourCost  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"labour_cost"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	CreatedByID uuid.UUID       `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *Employee       `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AdvanceInvoice records a deposit taken against a job before the final
// invoice is issued. At most one per job, enforced by the unique index.
type AdvanceInvoice struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	Job       *Job            `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}
