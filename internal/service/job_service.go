package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

// ProductPayload describes a device being registered alongside a job
type ProductPayload struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Model   string `json:"model" binding:"omitempty,max=255"`
	ModelNo string `json:"model_no" binding:"omitempty,max=100"`
}

// RegisterJobRequest creates whichever of {customer, product, job} do not yet
// exist and links them. Exactly one of CustomerID / Customer must be set, and
// likewise for ProductID / Product.
type RegisterJobRequest struct {
	CustomerID  string                 `json:"customer_id"`
	Customer    *CreateCustomerRequest `json:"customer"`
	ProductID   string                 `json:"product_id"`
	Product     *ProductPayload        `json:"product"`
	EmployeeID  string                 `json:"employee_id" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	ReceiveDate string                 `json:"receive_date" binding:"required"`
	Warranty    bool                   `json:"warranty"`
}

type UpdateJobRequest struct {
	Description  string `json:"description"`
	HandoverDate string `json:"handover_date"`
	Rating       *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	Feedback     string `json:"feedback"`
}

// ImageUpload is an optional product photo accompanying a registration
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

type JobResponse struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	ReceiveDate  string  `json:"receive_date"`
	HandoverDate *string `json:"handover_date"`
	Rating       *int    `json:"rating"`
	Feedback     string  `json:"feedback"`
	Warranty     bool    `json:"warranty"`
	CustomerID   string  `json:"customer_id"`
	EmployeeID   string  `json:"employee_id"`
	ProductID    string  `json:"product_id"`
	ImageURL     string  `json:"image_url,omitempty"`
	ImageError   string  `json:"image_error,omitempty"`
}

// --- Interface ---

type JobService interface {
	Register(ctx context.Context, actorID string, req RegisterJobRequest, image *ImageUpload) (*JobResponse, error)
	GetByID(ctx context.Context, id string) (*JobResponse, error)
	List(ctx context.Context, page, limit int, status string) ([]JobResponse, int64, error)
	UpdateStatus(ctx context.Context, actorID, id, newStatus string) (*JobResponse, error)
	Update(ctx context.Context, id string, req UpdateJobRequest) (*JobResponse, error)
}

type jobService struct {
	jobRepo      repository.JobRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	assets       storage.AssetStore
	hub          *ws.Hub
}

func NewJobService(
	jobRepo repository.JobRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	assets storage.AssetStore,
	hub *ws.Hub,
) JobService {
	return &jobService{
		jobRepo:      jobRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		assets:       assets,
		hub:          hub,
	}
}

// jobTransitions is the allowed status graph; cancelled and paid are terminal
var jobTransitions = map[string][]string{
	model.JobStatusPending:    {model.JobStatusOnProgress, model.JobStatusCancelled},
	model.JobStatusOnProgress: {model.JobStatusCompleted, model.JobStatusCancelled},
	model.JobStatusCompleted:  {model.JobStatusPaid},
}

func mapJob(j *model.Job) *JobResponse {
	resp := &JobResponse{
		ID:          j.ID.String(),
		Description: j.Description,
		Status:      j.Status,
		ReceiveDate: j.ReceiveDate.Format(dateLayout),
		Rating:      j.Rating,
		Feedback:    j.Feedback,
		Warranty:    j.Warranty,
		CustomerID:  j.CustomerID.String(),
		EmployeeID:  j.EmployeeID.String(),
		ProductID:   j.ProductID.String(),
	}
	if j.HandoverDate != nil {
		hd := j.HandoverDate.Format(dateLayout)
		resp.HandoverDate = &hd
	}
	if j.Product != nil {
		resp.ImageURL = j.Product.ImageURL
	}
	return resp
}

// parseDateOnly parses an ISO date without shifting it across timezones.
func parseDateOnly(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func (s *jobService) Register(ctx context.Context, actorID string, req RegisterJobRequest, image *ImageUpload) (*JobResponse, error) {
	receiveDate, err := parseDateOnly(req.ReceiveDate)
	if err != nil {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("receive_date", "invalid date, expected YYYY-MM-DD")}}
	}
	if receiveDate.After(time.Now()) {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("receive_date", "date must not be in the future")}}
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("employee %w", ErrNotFound)
	}
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil || !employee.IsActive {
		return nil, fmt.Errorf("employee %w", ErrNotFound)
	}

	if req.CustomerID == "" && req.Customer == nil {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("customer", "either customer_id or customer payload is required")}}
	}
	if req.ProductID == "" && req.Product == nil {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("product", "either product_id or product payload is required")}}
	}

	// Pre-validate the new-customer payload before opening the transaction
	if req.Customer != nil {
		if verr := validateCustomerPayload(ctx, s.customerRepo, *req.Customer); verr != nil {
			return nil, verr
		}
	}

	var job model.Job
	var product *model.Product

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Resolve or create the customer
		var customer *model.Customer
		if req.CustomerID != "" {
			customerID, parseErr := uuid.Parse(req.CustomerID)
			if parseErr != nil {
				return fmt.Errorf("customer %w", ErrNotFound)
			}
			customer, err = s.customerRepo.FindByID(txCtx, customerID)
			if err != nil {
				return fmt.Errorf("customer %w", ErrNotFound)
			}
		} else {
			customerType := req.Customer.Type
			if customerType == "" {
				customerType = model.CustomerTypeRegular
			}
			customer = &model.Customer{
				FirstName: req.Customer.FirstName,
				LastName:  req.Customer.LastName,
				Email:     req.Customer.Email,
				Type:      customerType,
			}
			if err := s.customerRepo.Create(txCtx, customer); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
			for _, number := range req.Customer.Phones {
				if err := s.customerRepo.AddPhone(txCtx, &model.CustomerPhone{
					CustomerID: customer.ID,
					Number:     number,
				}); err != nil {
					return fmt.Errorf("failed to store customer phone: %w", err)
				}
			}
		}

		// Resolve or create the product
		if req.ProductID != "" {
			productID, parseErr := uuid.Parse(req.ProductID)
			if parseErr != nil {
				return fmt.Errorf("product %w", ErrNotFound)
			}
			product, err = s.productRepo.FindByID(txCtx, productID)
			if err != nil {
				return fmt.Errorf("product %w", ErrNotFound)
			}
			if product.CustomerID != customer.ID {
				return &ValidationError{Fields: []fieldErr{fieldError("product_id", "product belongs to a different customer")}}
			}
			// One active job per product at a time
			active, activeErr := s.jobRepo.HasActiveJobForProduct(txCtx, product.ID)
			if activeErr != nil {
				return activeErr
			}
			if active {
				return fmt.Errorf("product already has an active job: %w", ErrAlreadyExists)
			}
		} else {
			product = &model.Product{
				Name:       req.Product.Name,
				Model:      req.Product.Model,
				ModelNo:    req.Product.ModelNo,
				CustomerID: customer.ID,
			}
			if err := s.productRepo.Create(txCtx, product); err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
		}

		job = model.Job{
			Description: req.Description,
			Status:      model.JobStatusPending,
			ReceiveDate: receiveDate,
			Warranty:    req.Warranty,
			CustomerID:  customer.ID,
			EmployeeID:  employee.ID,
			ProductID:   product.ID,
		}
		if err := s.jobRepo.Create(txCtx, &job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"customer_id": customer.ID.String(),
			"product_id":  product.ID.String(),
			"employee_id": employee.ID.String(),
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionRegisterJob,
			EntityID:   job.ID.String(),
			EntityName: product.Name,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	resp := mapJob(&job)

	// Image upload runs only after the transaction has committed, so a
	// registration rollback never orphans an uploaded asset. A failed upload
	// leaves the job registered and is reported in the response instead.
	if image != nil && s.assets != nil {
		url, uploadErr := s.assets.Upload(ctx, image.Filename, image.Reader)
		if uploadErr != nil {
			log.Printf("product image upload failed for job %s: %v", job.ID, uploadErr)
			resp.ImageError = "image upload failed"
		} else {
			product.ImageURL = url
			if saveErr := s.productRepo.Update(ctx, product); saveErr != nil {
				log.Printf("failed to persist image url for product %s: %v", product.ID, saveErr)
				resp.ImageError = "image upload failed"
			} else {
				resp.ImageURL = url
			}
		}
	}

	return resp, nil
}

func (s *jobService) GetByID(ctx context.Context, id string) (*JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, ErrNotFound
	}
	return mapJob(job), nil
}

func (s *jobService) List(ctx context.Context, page, limit int, status string) ([]JobResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	jobs, total, err := s.jobRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, *mapJob(&jobs[i]))
	}
	return responses, total, nil
}

func (s *jobService) UpdateStatus(ctx context.Context, actorID, id, newStatus string) (*JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var job *model.Job
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		job, err = s.jobRepo.FindByID(txCtx, jobID)
		if err != nil {
			return ErrNotFound
		}

		allowed := false
		for _, next := range jobTransitions[job.Status] {
			if next == newStatus {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("cannot move job from %q to %q: %w", job.Status, newStatus, ErrInvalidTransition)
		}

		previous := job.Status
		job.Status = newStatus
		if err := s.jobRepo.Update(txCtx, job); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"from": previous,
			"to":   newStatus,
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionUpdateJobStatus,
			EntityID:   job.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Notify(ws.EventJobStatus, map[string]interface{}{
			"job_id": job.ID.String(),
			"status": job.Status,
		})
	}

	return mapJob(job), nil
}

func (s *jobService) Update(ctx context.Context, id string, req UpdateJobRequest) (*JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Description != "" {
		job.Description = req.Description
	}
	if req.HandoverDate != "" {
		handover, parseErr := parseDateOnly(req.HandoverDate)
		if parseErr != nil {
			return nil, &ValidationError{Fields: []fieldErr{fieldError("handover_date", "invalid date, expected YYYY-MM-DD")}}
		}
		job.HandoverDate = &handover
	}
	if req.Rating != nil {
		job.Rating = req.Rating
	}
	if req.Feedback != "" {
		job.Feedback = req.Feedback
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return mapJob(job), nil
}

// parseActor converts the verified token subject into a nullable audit actor
func parseActor(actorID string) *uuid.UUID {
	if parsed, err := uuid.Parse(actorID); err == nil {
		return &parsed
	}
	return nil
}
