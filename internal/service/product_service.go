package service

import (
	"context"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Name       string `json:"name" binding:"required,min=2,max=255"`
	Model      string `json:"model"`
	ModelNo    string `json:"model_no"`
}

type UpdateProductRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Model   string `json:"model"`
	ModelNo string `json:"model_no"`
}

type ProductService interface {
	Create(ctx context.Context, req CreateProductRequest, image *ImageUpload) (*model.Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest, image *ImageUpload) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Product, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	assets       storage.AssetStore
}

func NewProductService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	assets storage.AssetStore,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		assets:       assets,
	}
}

func (s *productService) Create(ctx context.Context, req CreateProductRequest, image *ImageUpload) (*model.Product, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer %w", ErrNotFound)
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer %w", ErrNotFound)
	}

	product := &model.Product{
		CustomerID: customerID,
		Name:       req.Name,
		Model:      req.Model,
		ModelNo:    req.ModelNo,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// The image is attached after the record exists so an upload failure
	// never loses the registration.
	s.attachImage(ctx, product, image)
	return product, nil
}

func (s *productService) Update(ctx context.Context, id string, req UpdateProductRequest, image *ImageUpload) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, ErrNotFound
	}

	product.Name = req.Name
	product.Model = req.Model
	product.ModelNo = req.ModelNo
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if image != nil {
		previous := product.ImageURL
		s.attachImage(ctx, product, image)
		if previous != "" && product.ImageURL != previous {
			if err := s.assets.Delete(ctx, previous); err != nil {
				log.Printf("failed to delete replaced product image %s: %v", previous, err)
			}
		}
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return ErrNotFound
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *productService) ListByCustomer(ctx context.Context, customerID string) ([]model.Product, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("customer %w", ErrNotFound)
	}
	return s.productRepo.ListByCustomer(ctx, id)
}

func (s *productService) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.List(ctx, page, limit, search)
}

func (s *productService) attachImage(ctx context.Context, product *model.Product, image *ImageUpload) {
	if image == nil || s.assets == nil {
		return
	}
	url, err := s.assets.Upload(ctx, image.Filename, image.Reader)
	if err != nil {
		log.Printf("failed to upload product image for %s: %v", product.ID, err)
		return
	}
	product.ImageURL = url
	if err := s.productRepo.Update(ctx, product); err != nil {
		log.Printf("failed to save product image url for %s: %v", product.ID, err)
	}
}
