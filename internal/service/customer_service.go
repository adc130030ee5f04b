package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=2,max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Type      string   `json:"type" binding:"omitempty,oneof=REGULAR NORMAL"`
	Phones    []string `json:"phones" binding:"required,min=1"`
}

type UpdateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Type      string `json:"type" binding:"omitempty,oneof=REGULAR NORMAL"`
}

type CustomerResponse struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Type      string   `json:"type"`
	Phones    []string `json:"phones"`
	CreatedAt string   `json:"created_at"`
}

type CustomerService interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error)
	GetByID(ctx context.Context, id string) (*CustomerResponse, error)
	List(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (*CustomerResponse, error)
	Delete(ctx context.Context, id string) error
	AddPhone(ctx context.Context, id string, number string) (*CustomerResponse, error)
}

type customerService struct {
	repo      repository.CustomerRepository
	txManager repository.TransactionManager
}

func NewCustomerService(repo repository.CustomerRepository, txManager repository.TransactionManager) CustomerService {
	return &customerService{repo: repo, txManager: txManager}
}

func mapCustomer(c *model.Customer) *CustomerResponse {
	phones := make([]string, 0, len(c.Phones))
	for _, p := range c.Phones {
		phones = append(phones, p.Number)
	}
	return &CustomerResponse{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Type:      c.Type,
		Phones:    phones,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// validateCustomerPayload runs the pre-persistence checks shared by the
// customer endpoint and the job registration workflow.
func validateCustomerPayload(ctx context.Context, repo repository.CustomerRepository, req CreateCustomerRequest) *ValidationError {
	verr := &ValidationError{}

	if !emailRegex.MatchString(req.Email) {
		verr.Fields = append(verr.Fields, fieldError("email", "invalid email format"))
	}
	for _, number := range req.Phones {
		if !phoneRegex.MatchString(number) {
			verr.Fields = append(verr.Fields, fieldError("phones", "invalid phone number: "+number))
		}
	}

	if _, err := repo.FindByEmail(ctx, req.Email); err == nil {
		verr.Fields = append(verr.Fields, fieldError("email", "email already exists"))
	}
	for _, number := range req.Phones {
		if _, err := repo.FindByPhone(ctx, number); err == nil {
			verr.Fields = append(verr.Fields, fieldError("phones", "phone number already exists: "+number))
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if verr := validateCustomerPayload(ctx, s.repo, req); verr != nil {
		return nil, verr
	}

	customerType := req.Type
	if customerType == "" {
		customerType = model.CustomerTypeRegular
	}

	customer := &model.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Type:      customerType,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, customer); err != nil {
			return err
		}
		for _, number := range req.Phones {
			phone := &model.CustomerPhone{CustomerID: customer.ID, Number: number}
			if err := s.repo.AddPhone(txCtx, phone); err != nil {
				return err
			}
			customer.Phones = append(customer.Phones, *phone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapCustomer(customer), nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, ErrNotFound
	}
	return mapCustomer(customer), nil
}

func (s *customerService) List(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *mapCustomer(&customers[i]))
	}
	return responses, total, nil
}

func (s *customerService) Update(ctx context.Context, id string, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Email != "" && req.Email != customer.Email {
		if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
			return nil, &ValidationError{Fields: []response.FieldError{fieldError("email", "email already exists")}}
		}
		customer.Email = req.Email
	}
	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Type != "" {
		customer.Type = req.Type
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return mapCustomer(customer), nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, customerID)
}

func (s *customerService) AddPhone(ctx context.Context, id string, number string) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !phoneRegex.MatchString(number) {
		return nil, &ValidationError{Fields: []response.FieldError{fieldError("number", "invalid phone number")}}
	}
	if _, err := s.repo.FindByPhone(ctx, number); err == nil {
		return nil, &ValidationError{Fields: []response.FieldError{fieldError("number", "phone number already exists")}}
	}

	phone := &model.CustomerPhone{CustomerID: customer.ID, Number: number}
	if err := s.repo.AddPhone(ctx, phone); err != nil {
		return nil, err
	}
	customer.Phones = append(customer.Phones, *phone)
	return mapCustomer(customer), nil
}
