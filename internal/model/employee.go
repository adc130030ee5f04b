package model

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeRole enum constants
const (
	RoleOwner    = "owner"
	RoleEmployee = "employee"
)

// Employee represents shop staff. Employees are deactivated, never hard-deleted,
// so historical jobs keep a valid reference.
type Employee struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	NIC       string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"nic"`
	Role      string          `gorm:"type:varchar(20);not null" json:"role"` // owner, employee
	Password  string          `gorm:"type:varchar(255);not null" json:"-"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	Phones    []EmployeePhone `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"phones"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EmployeePhone is a phone number side table; numbers are unique per table only
type EmployeePhone struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Number     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}

// RefreshToken stores long-lived tokens allowing employees to request new access tokens
type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
