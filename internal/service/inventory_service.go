package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateItemRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	OutOfStockLevel int    `json:"out_of_stock_level" binding:"min=0"`
}

type UpdateItemRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	OutOfStockLevel int    `json:"out_of_stock_level" binding:"min=0"`
}

type CreateBatchRequest struct {
	ItemID       string `json:"item_id" binding:"required"`
	SupplierID   string `json:"supplier_id"`
	Quantity     int    `json:"quantity" binding:"required,min=1,max=9999"`
	UnitPrice    string `json:"unit_price" binding:"required"`
	PurchaseDate string `json:"purchase_date"` // defaults to today
}

type UpdateBatchRequest struct {
	UnitPrice    string `json:"unit_price"`
	PurchaseDate string `json:"purchase_date"`
}

type ConsumeStockRequest struct {
	JobID    string `json:"job_id" binding:"required"`
	ItemID   string `json:"item_id" binding:"required"`
	BatchID  string `json:"batch_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type UpdateConsumptionRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type BatchResponse struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name,omitempty"`
	SupplierID   string `json:"supplier_id,omitempty"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	PurchaseDate string `json:"purchase_date"`
}

type ConsumptionResponse struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	ItemID       string `json:"item_id"`
	BatchID      string `json:"batch_id"`
	QuantityUsed int    `json:"quantity_used"`
	Total        string `json:"total"`
}

// --- Interface ---

type InventoryService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*model.InventoryItem, error)
	ListItems(ctx context.Context, page, limit int, search string) ([]model.InventoryItem, int64, error)

	CreateBatch(ctx context.Context, actorID string, req CreateBatchRequest) (*BatchResponse, error)
	UpdateBatch(ctx context.Context, actorID, id string, req UpdateBatchRequest) (*BatchResponse, error)
	DeleteBatch(ctx context.Context, actorID, id string) error
	GetBatch(ctx context.Context, id string) (*BatchResponse, error)
	ListBatches(ctx context.Context, page, limit int, itemID string) ([]BatchResponse, int64, error)
	ListPurchases(ctx context.Context, page, limit int, from, to string) ([]model.InventoryPurchase, int64, error)

	ConsumeStock(ctx context.Context, actorID string, req ConsumeStockRequest) (*ConsumptionResponse, error)
	UpdateConsumption(ctx context.Context, actorID, id string, req UpdateConsumptionRequest) (*ConsumptionResponse, error)
	DeleteConsumption(ctx context.Context, actorID, id string) error
	ListConsumptionByJob(ctx context.Context, jobID string) ([]ConsumptionResponse, error)
}

type inventoryService struct {
	itemRepo  repository.InventoryItemRepository
	batchRepo repository.InventoryBatchRepository
	jobRepo   repository.JobRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewInventoryService(
	itemRepo repository.InventoryItemRepository,
	batchRepo repository.InventoryBatchRepository,
	jobRepo repository.JobRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		itemRepo:  itemRepo,
		batchRepo: batchRepo,
		jobRepo:   jobRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func mapBatch(b *model.InventoryBatch) *BatchResponse {
	resp := &BatchResponse{
		ID:           b.ID.String(),
		ItemID:       b.ItemID.String(),
		UnitPrice:    b.UnitPrice.String(),
		Quantity:     b.Quantity,
		PurchaseDate: b.PurchaseDate.Format(dateLayout),
	}
	if b.Item != nil {
		resp.ItemName = b.Item.Name
	}
	if b.SupplierID != nil {
		resp.SupplierID = b.SupplierID.String()
	}
	return resp
}

func mapConsumption(row *model.JobUsedInventory) *ConsumptionResponse {
	return &ConsumptionResponse{
		ID:           row.ID.String(),
		JobID:        row.JobID.String(),
		ItemID:       row.ItemID.String(),
		BatchID:      row.BatchID.String(),
		QuantityUsed: row.QuantityUsed,
		Total:        row.Total.String(),
	}
}

// --- Items ---

func (s *inventoryService) CreateItem(ctx context.Context, req CreateItemRequest) (*model.InventoryItem, error) {
	item := &model.InventoryItem{Name: req.Name, OutOfStockLevel: req.OutOfStockLevel}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.InventoryItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, ErrNotFound
	}

	item.Name = req.Name
	item.OutOfStockLevel = req.OutOfStockLevel
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return ErrNotFound
	}
	return s.itemRepo.Delete(ctx, itemID)
}

func (s *inventoryService) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, page, limit int, search string) ([]model.InventoryItem, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.itemRepo.List(ctx, page, limit, search)
}

// --- Batches & ledger ---

// CreateBatch records a stock delivery: the mutable batch and its immutable
// ledger row are written in the same transaction with identical
// quantity/price/total, the total computed server-side.
func (s *inventoryService) CreateBatch(ctx context.Context, actorID string, req CreateBatchRequest) (*BatchResponse, error) {
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("unit_price", "unit price must be a positive number")}}
	}

	purchaseDate := time.Now().Truncate(24 * time.Hour)
	if req.PurchaseDate != "" {
		purchaseDate, err = parseDateOnly(req.PurchaseDate)
		if err != nil {
			return nil, &ValidationError{Fields: []fieldErr{fieldError("purchase_date", "invalid date, expected YYYY-MM-DD")}}
		}
		if purchaseDate.After(time.Now()) {
			return nil, &ValidationError{Fields: []fieldErr{fieldError("purchase_date", "date must not be in the future")}}
		}
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}

	var supplierID *uuid.UUID
	if req.SupplierID != "" {
		parsed, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return nil, fmt.Errorf("supplier %w", ErrNotFound)
		}
		supplierID = &parsed
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	var batch model.InventoryBatch
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.itemRepo.FindByID(txCtx, itemID)
		if findErr != nil {
			return fmt.Errorf("inventory item %w", ErrNotFound)
		}

		batch = model.InventoryBatch{
			ItemID:       item.ID,
			UnitPrice:    unitPrice,
			Quantity:     req.Quantity,
			PurchaseDate: purchaseDate,
			SupplierID:   supplierID,
		}
		if err := s.batchRepo.Create(txCtx, &batch); err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		purchase := model.InventoryPurchase{
			ItemID:       item.ID,
			BatchID:      batch.ID,
			SupplierID:   supplierID,
			Quantity:     req.Quantity,
			UnitPrice:    unitPrice,
			Total:        total,
			PurchaseDate: purchaseDate,
		}
		if err := s.batchRepo.CreatePurchase(txCtx, &purchase); err != nil {
			return fmt.Errorf("failed to write purchase ledger: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"item_id":    item.ID.String(),
			"quantity":   req.Quantity,
			"unit_price": unitPrice.String(),
			"total":      total.String(),
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionCreateBatch,
			EntityID:   batch.ID.String(),
			EntityName: item.Name,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	// An intake can still leave the item at or under its reorder point
	s.notifyIfLowStock(ctx, itemID)

	return mapBatch(&batch), nil
}

// UpdateBatch edits the mutable batch view only; the purchase ledger is
// append-only and is deliberately not corrected retroactively.
func (s *inventoryService) UpdateBatch(ctx context.Context, actorID, id string, req UpdateBatchRequest) (*BatchResponse, error) {
	batchID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.UnitPrice != "" {
		unitPrice, parseErr := decimal.NewFromString(req.UnitPrice)
		if parseErr != nil || !unitPrice.IsPositive() {
			return nil, &ValidationError{Fields: []fieldErr{fieldError("unit_price", "unit price must be a positive number")}}
		}
		batch.UnitPrice = unitPrice
	}
	if req.PurchaseDate != "" {
		purchaseDate, parseErr := parseDateOnly(req.PurchaseDate)
		if parseErr != nil {
			return nil, &ValidationError{Fields: []fieldErr{fieldError("purchase_date", "invalid date, expected YYYY-MM-DD")}}
		}
		batch.PurchaseDate = purchaseDate
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batchRepo.Update(txCtx, batch); err != nil {
			return err
		}
		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionUpdateBatch,
			EntityID:   batch.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	return mapBatch(batch), nil
}

func (s *inventoryService) DeleteBatch(ctx context.Context, actorID, id string) error {
	batchID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return ErrNotFound
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batchRepo.Delete(txCtx, batchID); err != nil {
			return err
		}
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionDeleteBatch,
			EntityID:   batch.ID.String(),
			Details:    `{"deleted": true}`,
		}
		return s.auditRepo.Log(txCtx, audit)
	})
}

func (s *inventoryService) GetBatch(ctx context.Context, id string) (*BatchResponse, error) {
	batchID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, ErrNotFound
	}
	return mapBatch(batch), nil
}

func (s *inventoryService) ListBatches(ctx context.Context, page, limit int, itemID string) ([]BatchResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var filter *uuid.UUID
	if itemID != "" {
		parsed, err := uuid.Parse(itemID)
		if err != nil {
			return nil, 0, fmt.Errorf("inventory item %w", ErrNotFound)
		}
		filter = &parsed
	}

	batches, total, err := s.batchRepo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, *mapBatch(&batches[i]))
	}
	return responses, total, nil
}

func (s *inventoryService) ListPurchases(ctx context.Context, page, limit int, from, to string) ([]model.InventoryPurchase, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var fromDate, toDate *time.Time
	if from != "" {
		parsed, err := parseDateOnly(from)
		if err != nil {
			return nil, 0, &ValidationError{Fields: []fieldErr{fieldError("from", "invalid date, expected YYYY-MM-DD")}}
		}
		fromDate = &parsed
	}
	if to != "" {
		parsed, err := parseDateOnly(to)
		if err != nil {
			return nil, 0, &ValidationError{Fields: []fieldErr{fieldError("to", "invalid date, expected YYYY-MM-DD")}}
		}
		toDate = &parsed
	}

	return s.batchRepo.ListPurchases(ctx, page, limit, fromDate, toDate)
}

// --- Consumption ---

// ConsumeStock decrements the batch under a row lock and snapshots the cost at
// the batch's current unit price. The lock serializes concurrent consumption
// against the same batch so two requests cannot both pass the remaining-
// quantity check.
func (s *inventoryService) ConsumeStock(ctx context.Context, actorID string, req ConsumeStockRequest) (*ConsumptionResponse, error) {
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, fmt.Errorf("batch %w", ErrNotFound)
	}

	var row model.JobUsedInventory
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.jobRepo.FindByID(txCtx, jobID); findErr != nil {
			return fmt.Errorf("job %w", ErrNotFound)
		}

		batch, findErr := s.batchRepo.FindByIDForUpdate(txCtx, batchID)
		if findErr != nil {
			return fmt.Errorf("batch %w", ErrNotFound)
		}
		if batch.ItemID != itemID {
			return &ValidationError{Fields: []fieldErr{fieldError("batch_id", "batch does not belong to the given item")}}
		}

		if _, dupErr := s.jobRepo.FindUsedInventoryByKey(txCtx, jobID, itemID, batchID); dupErr == nil {
			return fmt.Errorf("consumption already recorded for this job and batch: %w", ErrAlreadyExists)
		}

		if req.Quantity > batch.Quantity {
			return ErrInsufficientStock
		}

		if err := s.batchRepo.UpdateQuantity(txCtx, batch.ID, batch.Quantity-req.Quantity); err != nil {
			return fmt.Errorf("failed to decrement batch: %w", err)
		}

		row = model.JobUsedInventory{
			JobID:        jobID,
			ItemID:       itemID,
			BatchID:      batchID,
			QuantityUsed: req.Quantity,
			Total:        batch.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		}
		if err := s.jobRepo.CreateUsedInventory(txCtx, &row); err != nil {
			return fmt.Errorf("failed to record consumption: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"job_id":   jobID.String(),
			"batch_id": batchID.String(),
			"quantity": req.Quantity,
			"total":    row.Total.String(),
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionConsumeStock,
			EntityID:   row.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.notifyIfLowStock(ctx, itemID)

	return mapConsumption(&row), nil
}

// UpdateConsumption applies undo-then-redo semantics: the previously recorded
// quantity is returned to the batch before the new quantity is validated and
// taken, so the check always runs against full physical stock.
func (s *inventoryService) UpdateConsumption(ctx context.Context, actorID, id string, req UpdateConsumptionRequest) (*ConsumptionResponse, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var row *model.JobUsedInventory
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, err = s.jobRepo.FindUsedInventory(txCtx, rowID)
		if err != nil {
			return ErrNotFound
		}

		batch, findErr := s.batchRepo.FindByIDForUpdate(txCtx, row.BatchID)
		if findErr != nil {
			return fmt.Errorf("batch %w", ErrNotFound)
		}

		// Undo the previous consumption, then redo with the new amount
		restored := batch.Quantity + row.QuantityUsed
		if req.Quantity > restored {
			return ErrInsufficientStock
		}
		if err := s.batchRepo.UpdateQuantity(txCtx, batch.ID, restored-req.Quantity); err != nil {
			return fmt.Errorf("failed to adjust batch: %w", err)
		}

		previous := row.QuantityUsed
		row.QuantityUsed = req.Quantity
		row.Total = batch.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if err := s.jobRepo.UpdateUsedInventory(txCtx, row); err != nil {
			return fmt.Errorf("failed to update consumption: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"from": previous,
			"to":   req.Quantity,
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionUpdateConsume,
			EntityID:   row.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.notifyIfLowStock(ctx, row.ItemID)

	return mapConsumption(row), nil
}

// DeleteConsumption removes the row and fully restores its quantity to the batch.
func (s *inventoryService) DeleteConsumption(ctx context.Context, actorID, id string) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, findErr := s.jobRepo.FindUsedInventory(txCtx, rowID)
		if findErr != nil {
			return ErrNotFound
		}

		batch, findErr := s.batchRepo.FindByIDForUpdate(txCtx, row.BatchID)
		if findErr != nil {
			return fmt.Errorf("batch %w", ErrNotFound)
		}

		if err := s.batchRepo.UpdateQuantity(txCtx, batch.ID, batch.Quantity+row.QuantityUsed); err != nil {
			return fmt.Errorf("failed to restore batch: %w", err)
		}
		if err := s.jobRepo.DeleteUsedInventory(txCtx, rowID); err != nil {
			return fmt.Errorf("failed to delete consumption: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"restored": row.QuantityUsed,
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionDeleteConsume,
			EntityID:   row.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
}

func (s *inventoryService) ListConsumptionByJob(ctx context.Context, jobID string) ([]ConsumptionResponse, error) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return nil, fmt.Errorf("job %w", ErrNotFound)
	}

	rows, err := s.jobRepo.ListUsedInventoryByJob(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]ConsumptionResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, *mapConsumption(&rows[i]))
	}
	return responses, nil
}

// notifyIfLowStock broadcasts a dashboard alert when the item's remaining
// total drops to its reorder point.
func (s *inventoryService) notifyIfLowStock(ctx context.Context, itemID uuid.UUID) {
	if s.hub == nil {
		return
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return
	}
	remaining, err := s.itemRepo.TotalRemaining(ctx, itemID)
	if err != nil {
		return
	}
	if remaining <= item.OutOfStockLevel {
		s.hub.Notify(ws.EventLowStock, map[string]interface{}{
			"item_id":   item.ID.String(),
			"item_name": item.Name,
			"remaining": remaining,
			"threshold": item.OutOfStockLevel,
		})
	}
}
