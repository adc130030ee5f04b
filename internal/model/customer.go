package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerType enum constants
const (
	CustomerTypeRegular = "REGULAR"
	CustomerTypeNormal  = "NORMAL"
)

// Customer represents a repair-shop customer who owns devices and jobs
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Type      string          `gorm:"type:varchar(20);not null;default:'REGULAR'" json:"type"` // REGULAR, NORMAL
	Phones    []CustomerPhone `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"phones"`
	Products  []Product       `gorm:"foreignKey:CustomerID" json:"products,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// CustomerPhone is a phone number side table; numbers are unique per table only
type CustomerPhone struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Number     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}
