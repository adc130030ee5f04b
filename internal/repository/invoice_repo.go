package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository covers invoices and advance invoices. Invoices are
// immutable once created; there are no update methods.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByJobID(ctx context.Context, jobID uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, page, limit int) ([]model.Invoice, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)

	CreateAdvance(ctx context.Context, advance *model.AdvanceInvoice) error
	FindAdvanceByJobID(ctx context.Context, jobID uuid.UUID) (*model.AdvanceInvoice, error)
	ListAdvances(ctx context.Context, page, limit int) ([]model.AdvanceInvoice, int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Job").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByJobID(ctx context.Context, jobID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Where("job_id = ?", jobID).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, page, limit int) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Job").Order("created_at desc").Offset(offset).Limit(limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_no LIKE ?", prefix+"%").Count(&count).Error
	return count, err
}

func (r *invoiceRepository) CreateAdvance(ctx context.Context, advance *model.AdvanceInvoice) error {
	return GetDB(ctx, r.db).Create(advance).Error
}

func (r *invoiceRepository) FindAdvanceByJobID(ctx context.Context, jobID uuid.UUID) (*model.AdvanceInvoice, error) {
	var advance model.AdvanceInvoice
	if err := GetDB(ctx, r.db).Where("job_id = ?", jobID).First(&advance).Error; err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *invoiceRepository) ListAdvances(ctx context.Context, page, limit int) ([]model.AdvanceInvoice, int64, error) {
	var advances []model.AdvanceInvoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AdvanceInvoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Job").Order("created_at desc").Offset(offset).Limit(limit).Find(&advances).Error; err != nil {
		return nil, 0, err
	}

	return advances, total, nil
}
