package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterJob     = "REGISTER_JOB"
	ActionUpdateJobStatus = "UPDATE_JOB_STATUS"
	ActionCreateBatch     = "CREATE_BATCH"
	ActionUpdateBatch     = "UPDATE_BATCH"
	ActionDeleteBatch     = "DELETE_BATCH"
	ActionConsumeStock    = "CONSUME_STOCK"
	ActionUpdateConsume   = "UPDATE_CONSUMPTION"
	ActionDeleteConsume   = "DELETE_CONSUMPTION"
	ActionApproveQuote    = "APPROVE_QUOTATION"
	ActionRejectQuote     = "REJECT_QUOTATION"
	ActionCreateOrder     = "CREATE_ORDER"
	ActionConfirmOrder    = "CONFIRM_ORDER"
	ActionReceiveOrder    = "RECEIVE_ORDER"
	ActionRejectOrder     = "REJECT_ORDER"
	ActionCreateInvoice   = "CREATE_INVOICE"
	ActionCreateAdvance   = "CREATE_ADVANCE_INVOICE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"employee_id"` // Nullable for unauthenticated flows
	Employee   *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
