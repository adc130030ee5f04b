package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryOrderRepository interface {
	Create(ctx context.Context, order *model.InventoryOrder) error
	Update(ctx context.Context, order *model.InventoryOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryOrder, error)
	// FindByQuotationID backs the supplier-side confirmation endpoint, which
	// locates the order by quotation rather than by order id.
	FindByQuotationID(ctx context.Context, quotationID uuid.UUID) (*model.InventoryOrder, error)
	List(ctx context.Context, page, limit int, status string) ([]model.InventoryOrder, int64, error)
}

type inventoryOrderRepository struct {
	db *gorm.DB
}

func NewInventoryOrderRepository(db *gorm.DB) InventoryOrderRepository {
	return &inventoryOrderRepository{db: db}
}

func (r *inventoryOrderRepository) Create(ctx context.Context, order *model.InventoryOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *inventoryOrderRepository) Update(ctx context.Context, order *model.InventoryOrder) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *inventoryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryOrder, error) {
	var order model.InventoryOrder
	if err := GetDB(ctx, r.db).Preload("Quotation").Preload("Supplier").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *inventoryOrderRepository) FindByQuotationID(ctx context.Context, quotationID uuid.UUID) (*model.InventoryOrder, error) {
	var order model.InventoryOrder
	if err := GetDB(ctx, r.db).Preload("Quotation").Preload("Supplier").
		Where("quotation_id = ?", quotationID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *inventoryOrderRepository) List(ctx context.Context, page, limit int, status string) ([]model.InventoryOrder, int64, error) {
	var orders []model.InventoryOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryOrder{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Quotation").Preload("Supplier").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
