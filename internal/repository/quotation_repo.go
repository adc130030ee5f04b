package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.SupplierQuotation) error
	Update(ctx context.Context, quotation *model.SupplierQuotation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierQuotation, error)
	List(ctx context.Context, page, limit int, status string, supplierID *uuid.UUID) ([]model.SupplierQuotation, int64, error)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *model.SupplierQuotation) error {
	return GetDB(ctx, r.db).Create(quotation).Error
}

func (r *quotationRepository) Update(ctx context.Context, quotation *model.SupplierQuotation) error {
	return GetDB(ctx, r.db).Save(quotation).Error
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SupplierQuotation{}).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierQuotation, error) {
	var quotation model.SupplierQuotation
	if err := GetDB(ctx, r.db).Preload("Supplier").Preload("Item").First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) List(ctx context.Context, page, limit int, status string, supplierID *uuid.UUID) ([]model.SupplierQuotation, int64, error) {
	var quotations []model.SupplierQuotation
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SupplierQuotation{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if supplierID != nil {
		db = db.Where("supplier_id = ?", *supplierID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Supplier").Preload("Item").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}
