package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a customer's device registered for repair.
// A product has many jobs over its lifetime; at most one is active at a time,
// enforced at the workflow level rather than by the schema.
type Product struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Model      string         `gorm:"type:varchar(255)" json:"model"`
	ModelNo    string         `gorm:"type:varchar(100)" json:"model_no"`
	ImageURL   string         `gorm:"type:text" json:"image_url"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
