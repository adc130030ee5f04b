package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type CreateSupplierRequest struct {
	Name    string   `json:"name" binding:"required,min=2,max=255"`
	Email   string   `json:"email" binding:"required"`
	Address string   `json:"address"`
	Phones  []string `json:"phones" binding:"required,min=1"`
}

type UpdateSupplierRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Email   string `json:"email" binding:"required"`
	Address string `json:"address"`
}

type SupplierService interface {
	Create(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Supplier, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Supplier, int64, error)
	AddPhone(ctx context.Context, id, number string) (*model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(supplierRepo repository.SupplierRepository, txManager repository.TransactionManager) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, txManager: txManager}
}

func (s *supplierService) validate(ctx context.Context, email string, phones []string, selfID *uuid.UUID) *ValidationError {
	var fields []fieldErr
	if !emailRegex.MatchString(email) {
		fields = append(fields, fieldError("email", "invalid email address"))
	} else if existing, err := s.supplierRepo.FindByEmail(ctx, email); err == nil {
		if selfID == nil || existing.ID != *selfID {
			fields = append(fields, fieldError("email", "email is already registered"))
		}
	}
	for _, number := range phones {
		if !phoneRegex.MatchString(number) {
			fields = append(fields, fieldError("phones", fmt.Sprintf("invalid phone number %q", number)))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *supplierService) Create(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error) {
	if verr := s.validate(ctx, req.Email, req.Phones, nil); verr != nil {
		return nil, verr
	}

	var supplier model.Supplier
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier = model.Supplier{
			Name:    req.Name,
			Email:   req.Email,
			Address: req.Address,
		}
		if err := s.supplierRepo.Create(txCtx, &supplier); err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}
		for _, number := range req.Phones {
			phone := &model.SupplierPhone{SupplierID: supplier.ID, Number: number}
			if err := s.supplierRepo.AddPhone(txCtx, phone); err != nil {
				return fmt.Errorf("failed to add supplier phone: %w", err)
			}
			supplier.Phones = append(supplier.Phones, *phone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, ErrNotFound
	}

	if verr := s.validate(ctx, req.Email, nil, &supplier.ID); verr != nil {
		return nil, verr
	}

	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return ErrNotFound
	}
	return s.supplierRepo.Delete(ctx, supplierID)
}

func (s *supplierService) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, ErrNotFound
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, page, limit int, search string) ([]model.Supplier, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.supplierRepo.List(ctx, page, limit, search)
}

func (s *supplierService) AddPhone(ctx context.Context, id, number string) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !phoneRegex.MatchString(number) {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("number", "invalid phone number")}}
	}

	phone := &model.SupplierPhone{SupplierID: supplier.ID, Number: number}
	if err := s.supplierRepo.AddPhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to add supplier phone: %w", err)
	}
	supplier.Phones = append(supplier.Phones, *phone)
	return supplier, nil
}
