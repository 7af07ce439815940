package inventory

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService reads and corrects on-hand quantities
type StockService struct {
	itemRepo      inventory.InventoryItemRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	txManager     shared.TxManager
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	itemRepo inventory.InventoryItemRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		txManager:     txManager,
		publisher:     publisher,
		logger:        logger,
	}
}

// ListStock returns stock rows. Store staff only see their own store.
func (s *StockService) ListStock(ctx context.Context, actor identity.Actor, filter StockListFilter) ([]StockResponse, int64, error) {
	storeID, err := actor.ScopeStore(filter.StoreID)
	if err != nil {
		return nil, 0, err
	}

	f := filter.PageQuery.Filter()
	if filter.WarehouseID != nil {
		f = f.With("warehouse_id", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		f = f.With("product_id", *filter.ProductID)
	}
	if storeID != nil {
		f = f.With("store_id", *storeID)
	}
	if filter.LowStock {
		f = f.With("low_stock", true)
	}

	items, err := s.itemRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	products, err := s.productsOf(ctx, items)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StockResponse, len(items))
	for i := range items {
		out[i] = ToStockResponse(&items[i], products[items[i].ProductID])
	}
	return out, total, nil
}

// GetStock returns the stock of one product in one warehouse. A missing row
// reads as zero pieces.
func (s *StockService) GetStock(ctx context.Context, actor identity.Actor, warehouseID, productID uuid.UUID) (*StockResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckLocation(warehouse.StoreID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByWarehouseAndProduct(ctx, warehouseID, productID)
	if errors.Is(err, shared.ErrNotFound) {
		item, err = inventory.NewInventoryItem(warehouseID, productID)
		if err != nil {
			return nil, err
		}
		item.ID = uuid.Nil
	} else if err != nil {
		return nil, err
	}
	response := ToStockResponse(item, product)
	return &response, nil
}

// AdjustStock applies a signed correction under a row lock. Stock never
// drops below zero.
func (s *StockService) AdjustStock(ctx context.Context, actor identity.Actor, req AdjustStockRequest) (*StockResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	warehouse, err := activeWarehouse(ctx, s.warehouseRepo, req.WarehouseID, "Target")
	if err != nil {
		return nil, err
	}
	if err := actor.CheckLocation(warehouse.StoreID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var item *inventory.InventoryItem
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if req.Delta > 0 {
			item, err = s.itemRepo.GetOrCreateForUpdate(ctx, req.WarehouseID, req.ProductID)
		} else {
			item, err = s.itemRepo.FindForUpdate(ctx, req.WarehouseID, req.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrInsufficientStock.Code, "No stock on hand to remove")
			}
		}
		if err != nil {
			return err
		}
		if err := item.Adjust(req.Delta); err != nil {
			return err
		}
		item.AddDomainEvent(inventory.NewStockAdjustedEvent(item, req.Delta, req.Reason, actor.UserID))
		return s.itemRepo.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", item.Quantity),
		zap.String("user_id", actor.UserID.String()))
	common.PublishEvents(ctx, s.publisher, s.logger, item)

	response := ToStockResponse(item, product)
	return &response, nil
}

func (s *StockService) productsOf(ctx context.Context, items []inventory.InventoryItem) (map[uuid.UUID]*catalog.Product, error) {
	byID := make(map[uuid.UUID]*catalog.Product, len(items))
	if len(items) == 0 {
		return byID, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
