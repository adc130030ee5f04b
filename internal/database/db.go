package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Customer{},
		&model.CustomerPhone{},
		&model.Employee{},
		&model.EmployeePhone{},
		&model.RefreshToken{},
		&model.Product{},
		&model.Job{},
		&model.InventoryItem{},
		&model.InventoryBatch{},
		&model.InventoryPurchase{},
		&model.JobUsedInventory{},
		&model.Supplier{},
		&model.SupplierPhone{},
		&model.SupplierQuotation{},
		&model.InventoryOrder{},
		&model.Invoice{},
		&model.AdvanceInvoice{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
