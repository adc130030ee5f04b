package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// invoiceNoRetries bounds how often a colliding invoice number is redrawn.
const invoiceNoRetries = 3

// --- DTOs ---

type CreateInvoiceRequest struct {
	JobID      string `json:"job_id" binding:"required"`
	LabourCost string `json:"labour_cost" binding:"required"`
}

type CreateAdvanceRequest struct {
	JobID  string `json:"job_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, actorID string, req CreateInvoiceRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	GetInvoiceByJob(ctx context.Context, jobID string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, page, limit int) ([]model.Invoice, int64, error)

	CreateAdvance(ctx context.Context, actorID string, req CreateAdvanceRequest) (*model.AdvanceInvoice, error)
	GetAdvanceByJob(ctx context.Context, jobID string) (*model.AdvanceInvoice, error)
	ListAdvances(ctx context.Context, page, limit int) ([]model.AdvanceInvoice, int64, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	jobRepo     repository.JobRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	jobRepo repository.JobRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		jobRepo:     jobRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// CreateInvoice issues the final invoice for a completed job. Parts cost is
// the sum of the job's consumption snapshots, taken at consumption time, so a
// later batch price change never alters an issued invoice.
func (s *invoiceService) CreateInvoice(ctx context.Context, actorID string, req CreateInvoiceRequest) (*model.Invoice, error) {
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}
	labourCost, err := decimal.NewFromString(req.LabourCost)
	if err != nil || labourCost.IsNegative() {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("labour_cost", "labour cost must be a non-negative number")}}
	}

	creator := parseActor(actorID)
	if creator == nil {
		return nil, ErrForbidden
	}

	// Concurrent creations can draw the same sequence number and collide on
	// the invoice_no unique index; retry with a fresh count.
	var invoice model.Invoice
	for attempt := 0; attempt < invoiceNoRetries; attempt++ {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			job, findErr := s.jobRepo.FindByID(txCtx, jobID)
			if findErr != nil {
				return fmt.Errorf("job %w", ErrNotFound)
			}
			if job.Status != model.JobStatusCompleted {
				return fmt.Errorf("job is %s, invoices require a completed job: %w", job.Status, ErrInvalidTransition)
			}
			if _, dupErr := s.invoiceRepo.FindByJobID(txCtx, jobID); dupErr == nil {
				return fmt.Errorf("an invoice already exists for this job: %w", ErrAlreadyExists)
			}

			rows, listErr := s.jobRepo.ListUsedInventoryByJob(txCtx, jobID)
			if listErr != nil {
				return fmt.Errorf("failed to load consumption: %w", listErr)
			}
			partsCost := decimal.Zero
			for i := range rows {
				partsCost = partsCost.Add(rows[i].Total)
			}

			invoiceNo, numErr := s.nextInvoiceNo(txCtx)
			if numErr != nil {
				return numErr
			}

			invoice = model.Invoice{
				InvoiceNo:   invoiceNo,
				JobID:       jobID,
				PartsCost:   partsCost,
				LabourCost:  labourCost,
				TotalAmount: partsCost.Add(labourCost),
				CreatedByID: *creator,
			}
			if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				return fmt.Errorf("failed to create invoice: %w", err)
			}

			details, _ := json.Marshal(map[string]interface{}{
				"invoice_no":   invoiceNo,
				"parts_cost":   partsCost.String(),
				"labour_cost":  labourCost.String(),
				"total_amount": invoice.TotalAmount.String(),
			})
			audit := &model.AuditLog{
				EmployeeID: creator,
				Action:     model.ActionCreateInvoice,
				EntityID:   invoice.ID.String(),
				Details:    string(details),
			}
			return s.auditRepo.Log(txCtx, audit)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to number invoice: %w", err)
		}
		return nil, err
	}
	return &invoice, nil
}

// nextInvoiceNo produces INV-YYYYMM-NNNN, sequential within the month.
func (s *invoiceService) nextInvoiceNo(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("INV-%s", time.Now().Format("200601"))
	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to number invoice: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoiceByJob(ctx context.Context, jobID string) (*model.Invoice, error) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}
	invoice, err := s.invoiceRepo.FindByJobID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, page, limit int) ([]model.Invoice, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.invoiceRepo.List(ctx, page, limit)
}

// CreateAdvance records a deposit on a job that is still in the workshop.
func (s *invoiceService) CreateAdvance(ctx context.Context, actorID string, req CreateAdvanceRequest) (*model.AdvanceInvoice, error) {
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("amount", "amount must be a positive number")}}
	}

	var advance model.AdvanceInvoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		job, findErr := s.jobRepo.FindByID(txCtx, jobID)
		if findErr != nil {
			return fmt.Errorf("job %w", ErrNotFound)
		}
		if job.Status != model.JobStatusPending && job.Status != model.JobStatusOnProgress {
			return fmt.Errorf("job is %s, deposits are taken on open jobs only: %w", job.Status, ErrInvalidTransition)
		}
		if _, dupErr := s.invoiceRepo.FindAdvanceByJobID(txCtx, jobID); dupErr == nil {
			return fmt.Errorf("an advance invoice already exists for this job: %w", ErrAlreadyExists)
		}

		advance = model.AdvanceInvoice{
			JobID:  jobID,
			Amount: amount,
			Note:   req.Note,
		}
		if err := s.invoiceRepo.CreateAdvance(txCtx, &advance); err != nil {
			return fmt.Errorf("failed to create advance invoice: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{"amount": amount.String()})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionCreateAdvance,
			EntityID:   advance.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (s *invoiceService) GetAdvanceByJob(ctx context.Context, jobID string) (*model.AdvanceInvoice, error) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}
	advance, err := s.invoiceRepo.FindAdvanceByJobID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return advance, nil
}

func (s *invoiceService) ListAdvances(ctx context.Context, page, limit int) ([]model.AdvanceInvoice, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.invoiceRepo.ListAdvances(ctx, page, limit)
}
