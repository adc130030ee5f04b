package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateQuotationRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
	ItemID     string `json:"item_id" binding:"required"`
	UnitPrice  string `json:"unit_price" binding:"required"`
	Notes      string `json:"notes"`
}

type CreateOrderRequest struct {
	QuotationID string `json:"quotation_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// --- Interface ---

type ProcurementService interface {
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*model.SupplierQuotation, error)
	GetQuotation(ctx context.Context, id string) (*model.SupplierQuotation, error)
	ListQuotations(ctx context.Context, page, limit int, status, supplierID string) ([]model.SupplierQuotation, int64, error)
	ApproveQuotation(ctx context.Context, actorID, id string) (*model.SupplierQuotation, error)
	RejectQuotation(ctx context.Context, actorID, id string) (*model.SupplierQuotation, error)

	CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*model.InventoryOrder, error)
	GetOrder(ctx context.Context, id string) (*model.InventoryOrder, error)
	ListOrders(ctx context.Context, page, limit int, status string) ([]model.InventoryOrder, int64, error)
	ConfirmOrderByQuotation(ctx context.Context, quotationID string) (*model.InventoryOrder, error)
	ReceiveOrder(ctx context.Context, actorID, id string) (*model.InventoryOrder, error)
	RejectOrder(ctx context.Context, actorID, id string) (*model.InventoryOrder, error)
}

type procurementService struct {
	quotationRepo repository.QuotationRepository
	orderRepo     repository.InventoryOrderRepository
	supplierRepo  repository.SupplierRepository
	itemRepo      repository.InventoryItemRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewProcurementService(
	quotationRepo repository.QuotationRepository,
	orderRepo repository.InventoryOrderRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.InventoryItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProcurementService {
	return &procurementService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		itemRepo:      itemRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

// --- Quotations ---

func (s *procurementService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*model.SupplierQuotation, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %w", ErrNotFound)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		return nil, &ValidationError{Fields: []fieldErr{fieldError("unit_price", "unit price must be a positive number")}}
	}

	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, fmt.Errorf("supplier %w", ErrNotFound)
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("inventory item %w", ErrNotFound)
	}

	quotation := &model.SupplierQuotation{
		SupplierID: supplierID,
		ItemID:     itemID,
		UnitPrice:  unitPrice,
		Notes:      req.Notes,
		Status:     model.QuotationPending,
	}
	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}
	return quotation, nil
}

func (s *procurementService) GetQuotation(ctx context.Context, id string) (*model.SupplierQuotation, error) {
	quotationID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, ErrNotFound
	}
	return quotation, nil
}

func (s *procurementService) ListQuotations(ctx context.Context, page, limit int, status, supplierID string) ([]model.SupplierQuotation, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var filter *uuid.UUID
	if supplierID != "" {
		parsed, err := uuid.Parse(supplierID)
		if err != nil {
			return nil, 0, fmt.Errorf("supplier %w", ErrNotFound)
		}
		filter = &parsed
	}
	return s.quotationRepo.List(ctx, page, limit, status, filter)
}

// ApproveQuotation moves a pending quotation to approved. Approving an
// already approved quotation is a no-op so a retried click cannot fail.
func (s *procurementService) ApproveQuotation(ctx context.Context, actorID, id string) (*model.SupplierQuotation, error) {
	return s.resolveQuotation(ctx, actorID, id, model.QuotationApproved, model.ActionApproveQuote)
}

// RejectQuotation moves a pending quotation to rejected, idempotently.
func (s *procurementService) RejectQuotation(ctx context.Context, actorID, id string) (*model.SupplierQuotation, error) {
	return s.resolveQuotation(ctx, actorID, id, model.QuotationRejected, model.ActionRejectQuote)
}

func (s *procurementService) resolveQuotation(ctx context.Context, actorID, id, target, action string) (*model.SupplierQuotation, error) {
	quotationID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var quotation *model.SupplierQuotation
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, err = s.quotationRepo.FindByID(txCtx, quotationID)
		if err != nil {
			return ErrNotFound
		}

		if quotation.Status == target {
			return nil // already resolved the same way
		}
		if quotation.Status != model.QuotationPending {
			return fmt.Errorf("quotation is already %s: %w", quotation.Status, ErrInvalidTransition)
		}

		quotation.Status = target
		if err := s.quotationRepo.Update(txCtx, quotation); err != nil {
			return fmt.Errorf("failed to resolve quotation: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{"status": target})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     action,
			EntityID:   quotation.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return quotation, nil
}

// --- Orders ---

// CreateOrder places a purchase request against an approved quotation.
func (s *procurementService) CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*model.InventoryOrder, error) {
	quotationID, err := uuid.Parse(req.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %w", ErrNotFound)
	}

	var order model.InventoryOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, findErr := s.quotationRepo.FindByID(txCtx, quotationID)
		if findErr != nil {
			return fmt.Errorf("quotation %w", ErrNotFound)
		}
		if quotation.Status != model.QuotationApproved {
			return fmt.Errorf("quotation is %s, orders require an approved quotation: %w", quotation.Status, ErrInvalidTransition)
		}
		if _, dupErr := s.orderRepo.FindByQuotationID(txCtx, quotationID); dupErr == nil {
			return fmt.Errorf("an order already exists for this quotation: %w", ErrAlreadyExists)
		}

		order = model.InventoryOrder{
			QuotationID: quotation.ID,
			SupplierID:  quotation.SupplierID,
			Quantity:    req.Quantity,
			Status:      model.OrderPending,
		}
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"quotation_id": quotation.ID.String(),
			"quantity":     req.Quantity,
		})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     model.ActionCreateOrder,
			EntityID:   order.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *procurementService) GetOrder(ctx context.Context, id string) (*model.InventoryOrder, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *procurementService) ListOrders(ctx context.Context, page, limit int, status string) ([]model.InventoryOrder, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.List(ctx, page, limit, status)
}

// ConfirmOrderByQuotation is the supplier-facing acknowledgement. The caller
// identifies the order by the quotation it was placed against. Confirming an
// already confirmed order is a no-op.
func (s *procurementService) ConfirmOrderByQuotation(ctx context.Context, quotationID string) (*model.InventoryOrder, error) {
	qID, err := uuid.Parse(quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation %w", ErrNotFound)
	}

	var order *model.InventoryOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err = s.orderRepo.FindByQuotationID(txCtx, qID)
		if err != nil {
			return fmt.Errorf("order %w", ErrNotFound)
		}

		if order.Status == model.OrderConfirmed {
			return nil
		}
		if order.Status != model.OrderPending {
			return fmt.Errorf("order is %s: %w", order.Status, ErrInvalidTransition)
		}

		order.Status = model.OrderConfirmed
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to confirm order: %w", err)
		}

		audit := &model.AuditLog{
			Action:   model.ActionConfirmOrder,
			EntityID: order.ID.String(),
			Details:  fmt.Sprintf(`{"quotation_id": %q}`, qID.String()),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReceiveOrder marks goods arrival on a confirmed order.
func (s *procurementService) ReceiveOrder(ctx context.Context, actorID, id string) (*model.InventoryOrder, error) {
	return s.advanceOrder(ctx, actorID, id, model.OrderConfirmed, model.OrderReceived, model.ActionReceiveOrder)
}

// RejectOrder cancels a pending order before the supplier confirms it.
func (s *procurementService) RejectOrder(ctx context.Context, actorID, id string) (*model.InventoryOrder, error) {
	return s.advanceOrder(ctx, actorID, id, model.OrderPending, model.OrderRejected, model.ActionRejectOrder)
}

func (s *procurementService) advanceOrder(ctx context.Context, actorID, id, from, to, action string) (*model.InventoryOrder, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var order *model.InventoryOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err = s.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return ErrNotFound
		}
		if order.Status != from {
			return fmt.Errorf("order is %s, expected %s: %w", order.Status, from, ErrInvalidTransition)
		}

		order.Status = to
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{"from": from, "to": to})
		audit := &model.AuditLog{
			EmployeeID: parseActor(actorID),
			Action:     action,
			EntityID:   order.ID.String(),
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
