package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, page, limit int, status string) ([]model.Job, int64, error)
	HasActiveJobForProduct(ctx context.Context, productID uuid.UUID) (bool, error)

	CreateUsedInventory(ctx context.Context, row *model.JobUsedInventory) error
	UpdateUsedInventory(ctx context.Context, row *model.JobUsedInventory) error
	DeleteUsedInventory(ctx context.Context, id uuid.UUID) error
	FindUsedInventory(ctx context.Context, id uuid.UUID) (*model.JobUsedInventory, error)
	FindUsedInventoryByKey(ctx context.Context, jobID, itemID, batchID uuid.UUID) (*model.JobUsedInventory, error)
	ListUsedInventoryByJob(ctx context.Context, jobID uuid.UUID) ([]model.JobUsedInventory, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return GetDB(ctx, r.db).Create(job).Error
}

func (r *jobRepository) Update(ctx context.Context, job *model.Job) error {
	return GetDB(ctx, r.db).Save(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Employee").
		Preload("Product").
		First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context, page, limit int, status string) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Job{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Customer").
		Preload("Employee").
		Preload("Product").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// HasActiveJobForProduct reports whether the product already has a job that is
// neither completed, cancelled nor paid.
func (r *jobRepository) HasActiveJobForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Job{}).
		Where("product_id = ? AND status IN ?", productID,
			[]string{model.JobStatusPending, model.JobStatusOnProgress}).
		Count(&count).Error
	return count > 0, err
}

func (r *jobRepository) CreateUsedInventory(ctx context.Context, row *model.JobUsedInventory) error {
	return GetDB(ctx, r.db).Create(row).Error
}

func (r *jobRepository) UpdateUsedInventory(ctx context.Context, row *model.JobUsedInventory) error {
	return GetDB(ctx, r.db).Save(row).Error
}

func (r *jobRepository) DeleteUsedInventory(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.JobUsedInventory{}).Error
}

func (r *jobRepository) FindUsedInventory(ctx context.Context, id uuid.UUID) (*model.JobUsedInventory, error) {
	var row model.JobUsedInventory
	if err := GetDB(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *jobRepository) FindUsedInventoryByKey(ctx context.Context, jobID, itemID, batchID uuid.UUID) (*model.JobUsedInventory, error) {
	var row model.JobUsedInventory
	if err := GetDB(ctx, r.db).
		Where("job_id = ? AND item_id = ? AND batch_id = ?", jobID, itemID, batchID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *jobRepository) ListUsedInventoryByJob(ctx context.Context, jobID uuid.UUID) ([]model.JobUsedInventory, error) {
	var rows []model.JobUsedInventory
	if err := GetDB(ctx, r.db).
		Preload("Item").
		Preload("Batch").
		Where("job_id = ?", jobID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
