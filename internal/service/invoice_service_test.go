package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type invoiceFixture struct {
	svc         InvoiceService
	invoiceRepo *memInvoiceRepo
	jobRepo     *memJobRepo
	auditRepo   *memAuditRepo
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	invoiceRepo := newMemInvoiceRepo()
	jobRepo := newMemJobRepo()
	auditRepo := &memAuditRepo{}
	svc := NewInvoiceService(invoiceRepo, jobRepo, auditRepo, &memTxManager{})
	return &invoiceFixture{svc: svc, invoiceRepo: invoiceRepo, jobRepo: jobRepo, auditRepo: auditRepo}
}

func (f *invoiceFixture) addJob(t *testing.T, status string) *model.Job {
	t.Helper()
	job := &model.Job{
		Description: "power supply repair",
		Status:      status,
		ReceiveDate: time.Now(),
		CustomerID:  uuid.New(),
		EmployeeID:  uuid.New(),
		ProductID:   uuid.New(),
	}
	require.NoError(t, f.jobRepo.Create(context.Background(), job))
	return job
}

func (f *invoiceFixture) addConsumption(t *testing.T, jobID uuid.UUID, total int64) {
	t.Helper()
	row := &model.JobUsedInventory{
		JobID:        jobID,
		ItemID:       uuid.New(),
		BatchID:      uuid.New(),
		QuantityUsed: 1,
		Total:        decimal.NewFromInt(total),
	}
	require.NoError(t, f.jobRepo.CreateUsedInventory(context.Background(), row))
}

func TestCreateInvoiceSumsSnapshots(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)
	f.addConsumption(t, job.ID, 500)
	f.addConsumption(t, job.ID, 300)
	f.addConsumption(t, job.ID, 200)

	invoice, err := f.svc.CreateInvoice(context.Background(), uuid.NewString(), CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "200",
	})
	require.NoError(t, err)

	assert.True(t, invoice.PartsCost.Equal(decimal.NewFromInt(1000)))
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(1200)))

	expectedPrefix := fmt.Sprintf("INV-%s-", time.Now().Format("200601"))
	assert.Equal(t, expectedPrefix+"0001", invoice.InvoiceNo)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateInvoice, f.auditRepo.entries[0].Action)
}

func TestCreateInvoiceNumbersSequentially(t *testing.T) {
	f := newInvoiceFixture(t)
	actor := uuid.NewString()

	for i := 1; i <= 3; i++ {
		job := f.addJob(t, model.JobStatusCompleted)
		invoice, err := f.svc.CreateInvoice(context.Background(), actor, CreateInvoiceRequest{
			JobID:      job.ID.String(),
			LabourCost: "100",
		})
		require.NoError(t, err)
		expected := fmt.Sprintf("INV-%s-%04d", time.Now().Format("200601"), i)
		assert.Equal(t, expected, invoice.InvoiceNo)
	}
}

func TestCreateInvoiceRequiresCompletedJob(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusOnProgress)

	_, err := f.svc.CreateInvoice(context.Background(), uuid.NewString(), CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreateInvoiceRejectsSecondForSameJob(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)
	actor := uuid.NewString()

	_, err := f.svc.CreateInvoice(context.Background(), actor, CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.NoError(t, err)

	_, err = f.svc.CreateInvoice(context.Background(), actor, CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateInvoiceRequiresVerifiedActor(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)

	_, err := f.svc.CreateInvoice(context.Background(), "", CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateInvoiceZeroPartsJob(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)

	invoice, err := f.svc.CreateInvoice(context.Background(), uuid.NewString(), CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "350",
	})
	require.NoError(t, err)
	assert.True(t, invoice.PartsCost.IsZero())
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(350)))
}

func TestCreateAdvanceOncePerJob(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusPending)
	actor := uuid.NewString()

	advance, err := f.svc.CreateAdvance(context.Background(), actor, CreateAdvanceRequest{
		JobID:  job.ID.String(),
		Amount: "500",
	})
	require.NoError(t, err)
	assert.True(t, advance.Amount.Equal(decimal.NewFromInt(500)))

	_, err = f.svc.CreateAdvance(context.Background(), actor, CreateAdvanceRequest{
		JobID:  job.ID.String(),
		Amount: "300",
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateAdvanceRequiresOpenJob(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)

	_, err := f.svc.CreateAdvance(context.Background(), uuid.NewString(), CreateAdvanceRequest{
		JobID:  job.ID.String(),
		Amount: "500",
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreateAdvanceRejectsNonPositiveAmount(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusPending)

	_, err := f.svc.CreateAdvance(context.Background(), "", CreateAdvanceRequest{
		JobID:  job.ID.String(),
		Amount: "0",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Fields[0].Field)
}

func TestCreateInvoiceRetriesOnNumberCollision(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)
	f.invoiceRepo.createErrs = []error{gorm.ErrDuplicatedKey}

	invoice, err := f.svc.CreateInvoice(context.Background(), uuid.NewString(), CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.NoError(t, err)
	expectedPrefix := fmt.Sprintf("INV-%s-", time.Now().Format("200601"))
	assert.Equal(t, expectedPrefix+"0001", invoice.InvoiceNo)
}

func TestCreateInvoiceGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newInvoiceFixture(t)
	job := f.addJob(t, model.JobStatusCompleted)
	f.invoiceRepo.createErrs = []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey}

	_, err := f.svc.CreateInvoice(context.Background(), uuid.NewString(), CreateInvoiceRequest{
		JobID:      job.ID.String(),
		LabourCost: "100",
	})
	require.Error(t, err)
	assert.Empty(t, f.invoiceRepo.invoices)
}
