package trade

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/partner"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService drives supplier orders from draft to receipt
type PurchaseOrderService struct {
	poRepo        trade.PurchaseOrderRepository
	itemRepo      inventory.InventoryItemRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	supplierRepo  partner.SupplierRepository
	sequences     shared.SequenceGenerator
	txManager     shared.TxManager
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	poRepo trade.PurchaseOrderRepository,
	itemRepo inventory.InventoryItemRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		poRepo:        poRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		sequences:     sequences,
		txManager:     txManager,
		publisher:     publisher,
		logger:        logger,
	}
}

// Create drafts a purchase order for delivery into one warehouse
func (s *PurchaseOrderService) Create(ctx context.Context, actor identity.Actor, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Purchase order must contain at least one item")
	}
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Supplier not found")
	}
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Supplier is inactive")
	}
	warehouse, err := s.receivingWarehouse(ctx, actor, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, shared.SequencePurchaseOrder)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(number, supplier.ID, warehouse.ID, actor.UserID, lines)
	if err != nil {
		return nil, err
	}
	po.SetDetails(req.ExpectedDate, req.Notes)

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order created",
		zap.String("po_number", po.PONumber),
		zap.String("supplier", supplier.Code),
		zap.String("warehouse", warehouse.Code),
		zap.String("total", po.TotalAmount.StringFixed(2)))

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Update edits a draft. Items are replaced only when given.
func (s *PurchaseOrderService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if po.Status != trade.PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft purchase orders can be edited")
	}
	if len(req.Items) > 0 {
		lines, err := s.buildLines(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		if err := po.ReplaceItems(lines); err != nil {
			return nil, err
		}
	}
	expected, notes := po.ExpectedDate, po.Notes
	if req.ExpectedDate != nil {
		expected = req.ExpectedDate
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	po.SetDetails(expected, notes)

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Submit sends a draft for approval
func (s *PurchaseOrderService) Submit(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, id, "submitted", func(po *trade.PurchaseOrder) error {
		return po.Submit()
	})
}

// Approve authorizes a submitted order. District managers only.
func (s *PurchaseOrderService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	if err := actor.Require(identity.PermPurchaseApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "approved", func(po *trade.PurchaseOrder) error {
		return po.Approve(actor.UserID)
	})
}

// Cancel abandons an order that has not been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, id, "cancelled", func(po *trade.PurchaseOrder) error {
		return po.Cancel(reason)
	})
}

func (s *PurchaseOrderService) transition(ctx context.Context, actor identity.Actor, id uuid.UUID, action string, apply func(*trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	po, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := apply(po); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order "+action,
		zap.String("po_number", po.PONumber),
		zap.String("user_id", actor.UserID.String()))

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Receive books an approved order into its warehouse. Each line raises the
// on-hand quantity and folds its cost into the row's average unit cost.
// The versioned header write runs first in the transaction, so a second
// concurrent receipt fails before any stock moves.
func (s *PurchaseOrderService) Receive(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, po.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Receiving warehouse is inactive")
	}
	if err := po.Receive(actor.UserID); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
			return err
		}
		for _, line := range lockOrder(po.Items, purchaseItemProduct) {
			stock, err := s.itemRepo.GetOrCreateForUpdate(ctx, po.WarehouseID, line.ProductID)
			if err != nil {
				return err
			}
			cost := line.UnitCost
			if err := stock.Increase(line.Quantity, &cost); err != nil {
				return err
			}
			if err := s.itemRepo.Save(ctx, stock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order received",
		zap.String("po_number", po.PONumber),
		zap.String("warehouse", warehouse.Code),
		zap.Int("lines", len(po.Items)),
		zap.String("user_id", actor.UserID.String()))
	common.PublishEvents(ctx, s.publisher, s.logger, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Get retrieves a purchase order visible to the actor
func (s *PurchaseOrderService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// List returns purchase orders. Store managers see orders delivering into
// their own store's warehouses.
func (s *PurchaseOrderService) List(ctx context.Context, actor identity.Actor, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	storeID, err := actor.ScopeStore(nil)
	if err != nil {
		return nil, 0, err
	}

	f := filter.PageQuery.Filter().With("status", filter.Status)
	if filter.SupplierID != nil {
		f = f.With("supplier_id", *filter.SupplierID)
	}
	if filter.WarehouseID != nil {
		f = f.With("warehouse_id", *filter.WarehouseID)
	}
	if storeID != nil {
		warehouses, err := s.warehouseRepo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"store_id": *storeID}})
		if err != nil {
			return nil, 0, err
		}
		ids := make([]uuid.UUID, len(warehouses))
		for i, w := range warehouses {
			ids[i] = w.ID
		}
		f = f.With("warehouse_ids", ids)
	}

	orders, err := s.poRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.poRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out, total, nil
}

func (s *PurchaseOrderService) visible(ctx context.Context, actor identity.Actor, id uuid.UUID) (*trade.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsChainWide() {
		return po, nil
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, po.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckLocation(warehouse.StoreID); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *PurchaseOrderService) receivingWarehouse(ctx context.Context, actor identity.Actor, id uuid.UUID) (*inventory.Warehouse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Warehouse not found")
	}
	if err != nil {
		return nil, err
	}
	if err := actor.CheckLocation(w.StoreID); err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Warehouse is inactive")
	}
	return w, nil
}

func (s *PurchaseOrderService) buildLines(ctx context.Context, items []PurchaseLineRequest) ([]trade.PurchaseLine, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]trade.PurchaseLine, len(items))
	for i, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Product "+it.ProductID.String()+" not found")
		}
		cost := p.CostPrice
		if it.UnitCost != nil {
			cost = *it.UnitCost
		}
		lines[i] = trade.PurchaseLine{
			ProductID:   p.ID,
			SKU:         p.SKU,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitCost:    cost,
		}
	}
	return lines, nil
}

func purchaseItemProduct(it trade.PurchaseOrderItem) uuid.UUID { return it.ProductID }
