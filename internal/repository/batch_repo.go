package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryBatchRepository covers the mutable batch view and the append-only
// purchase ledger. The ledger deliberately has no update or delete methods.
type InventoryBatchRepository interface {
	Create(ctx context.Context, batch *model.InventoryBatch) error
	Update(ctx context.Context, batch *model.InventoryBatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	List(ctx context.Context, page, limit int, itemID *uuid.UUID) ([]model.InventoryBatch, int64, error)

	CreatePurchase(ctx context.Context, purchase *model.InventoryPurchase) error
	ListPurchases(ctx context.Context, page, limit int, from, to *time.Time) ([]model.InventoryPurchase, int64, error)
}

type inventoryBatchRepository struct {
	db *gorm.DB
}

func NewInventoryBatchRepository(db *gorm.DB) InventoryBatchRepository {
	return &inventoryBatchRepository{db: db}
}

func (r *inventoryBatchRepository) Create(ctx context.Context, batch *model.InventoryBatch) error {
	return GetDB(ctx, r.db).Create(batch).Error
}

func (r *inventoryBatchRepository) Update(ctx context.Context, batch *model.InventoryBatch) error {
	return GetDB(ctx, r.db).Save(batch).Error
}

func (r *inventoryBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.InventoryBatch{}).Error
}

func (r *inventoryBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	var batch model.InventoryBatch
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Supplier").First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate takes a row lock so concurrent consumption requests
// against the same batch serialize on the read-then-decrement sequence.
func (r *inventoryBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	var batch model.InventoryBatch
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *inventoryBatchRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return GetDB(ctx, r.db).Model(&model.InventoryBatch{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *inventoryBatchRepository) List(ctx context.Context, page, limit int, itemID *uuid.UUID) ([]model.InventoryBatch, int64, error) {
	var batches []model.InventoryBatch
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryBatch{})
	if itemID != nil {
		db = db.Where("item_id = ?", *itemID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Item").Preload("Supplier").
		Order("purchase_date desc").Offset(offset).Limit(limit).Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

func (r *inventoryBatchRepository) CreatePurchase(ctx context.Context, purchase *model.InventoryPurchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *inventoryBatchRepository) ListPurchases(ctx context.Context, page, limit int, from, to *time.Time) ([]model.InventoryPurchase, int64, error) {
	var purchases []model.InventoryPurchase
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryPurchase{})
	if from != nil {
		db = db.Where("purchase_date >= ?", *from)
	}
	if to != nil {
		db = db.Where("purchase_date <= ?", *to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("purchase_date desc").Offset(offset).Limit(limit).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}
