package trade

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService records and voids sales
type OrderService struct {
	orderRepo     trade.OrderRepository
	itemRepo      inventory.InventoryItemRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	storeRepo     store.StoreRepository
	userRepo      identity.UserRepository
	sequences     shared.SequenceGenerator
	txManager     shared.TxManager
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	itemRepo inventory.InventoryItemRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	storeRepo store.StoreRepository,
	userRepo identity.UserRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		storeRepo:     storeRepo,
		userRepo:      userRepo,
		sequences:     sequences,
		txManager:     txManager,
		publisher:     publisher,
		logger:        logger,
	}
}

// CreateOrder records a completed sale and takes the pieces out of stock.
// Stock rows are locked in product order so two sales of overlapping
// products cannot deadlock, and a short row aborts the whole sale.
func (s *OrderService) CreateOrder(ctx context.Context, actor identity.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Order must contain at least one item")
	}

	storeID, err := s.resolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store not found")
		}
		return nil, err
	}
	if !st.IsActive() {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Store is closed")
	}

	warehouse, err := s.resolveWarehouse(ctx, storeID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	salespersonID, err := s.resolveSalesperson(ctx, actor, storeID, req.SalespersonID)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, shared.SequenceSalesOrder)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(number, storeID, warehouse.ID, salespersonID, trade.PaymentMethod(req.PaymentMethod), lines, req.Tax)
	if err != nil {
		return nil, err
	}
	order.SetCustomer(trade.Customer{Name: req.CustomerName, Phone: req.CustomerPhone, Email: req.CustomerEmail})
	order.Notes = req.Notes

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		for _, it := range lockOrder(order.Items, orderItemProduct) {
			stock, err := s.itemRepo.FindForUpdate(ctx, warehouse.ID, it.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrInsufficientStock.Code, "No stock of "+it.SKU+" in "+warehouse.Code)
			}
			if err != nil {
				return err
			}
			if err := stock.Decrease(it.Quantity); err != nil {
				return err
			}
			if err := s.itemRepo.Save(ctx, stock); err != nil {
				return err
			}
		}
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("store", st.Code),
		zap.Int("pieces", order.TotalQuantity()),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	common.PublishEvents(ctx, s.publisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// CancelOrder voids a completed sale and puts the pieces back where they
// were sold from
func (s *OrderService) CancelOrder(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStore(order.StoreID); err != nil {
		return nil, err
	}
	if err := order.Cancel(actor.UserID, reason); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// The versioned header write goes first so a concurrent cancel
		// fails before it touches stock.
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		for _, it := range lockOrder(order.Items, orderItemProduct) {
			stock, err := s.itemRepo.GetOrCreateForUpdate(ctx, order.WarehouseID, it.ProductID)
			if err != nil {
				return err
			}
			if err := stock.Increase(it.Quantity, nil); err != nil {
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

	s.logger.Info("Order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", order.CancelReason),
		zap.String("user_id", actor.UserID.String()))
	common.PublishEvents(ctx, s.publisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder retrieves a sale visible to the actor
func (s *OrderService) GetOrder(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStore(order.StoreID); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders returns sales, pinned to the actor's store for store staff
func (s *OrderService) ListOrders(ctx context.Context, actor identity.Actor, filter OrderListFilter) ([]OrderResponse, int64, error) {
	storeID, err := actor.ScopeStore(filter.StoreID)
	if err != nil {
		return nil, 0, err
	}

	f := filter.PageQuery.Filter().With("status", filter.Status)
	if storeID != nil {
		f = f.With("store_id", *storeID)
	}
	if filter.SalespersonID != nil {
		f = f.With("salesperson_id", *filter.SalespersonID)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		// the date is inclusive
		f = f.With("to", filter.To.AddDate(0, 0, 1))
	}

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

func (s *OrderService) resolveStore(actor identity.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil {
		return *requested, actor.CheckStore(*requested)
	}
	if actor.StoreID == nil {
		return uuid.Nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store is required")
	}
	return *actor.StoreID, nil
}

func (s *OrderService) resolveWarehouse(ctx context.Context, storeID uuid.UUID, requested *uuid.UUID) (*inventory.Warehouse, error) {
	if requested == nil {
		w, err := s.warehouseRepo.FindByStore(ctx, storeID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store has no active warehouse")
		}
		return w, err
	}
	w, err := s.warehouseRepo.FindByID(ctx, *requested)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Warehouse not found")
	}
	if err != nil {
		return nil, err
	}
	if !w.BelongsTo(storeID) {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse does not belong to the store")
	}
	if !w.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Warehouse is inactive")
	}
	return w, nil
}

// resolveSalesperson defaults to the caller. Sales associates can only book
// their own sales.
func (s *OrderService) resolveSalesperson(ctx context.Context, actor identity.Actor, storeID uuid.UUID, requested *uuid.UUID) (uuid.UUID, error) {
	if requested == nil || *requested == actor.UserID {
		return actor.UserID, nil
	}
	if actor.Role == identity.RoleSalesAssociate {
		return uuid.Nil, shared.NewDomainError(shared.ErrForbidden.Code, "Sales associates can only record their own sales")
	}
	u, err := s.userRepo.FindByID(ctx, *requested)
	if errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, shared.NewDomainError("INVALID_SALESPERSON", "Salesperson not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	if !u.IsActive() || !u.BelongsTo(storeID) {
		return uuid.Nil, shared.NewDomainError("INVALID_SALESPERSON", "Salesperson must be active staff of the store")
	}
	return u.ID, nil
}

func (s *OrderService) buildLines(ctx context.Context, items []OrderLineRequest) ([]trade.OrderLine, error) {
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

	lines := make([]trade.OrderLine, len(items))
	for i, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Product "+it.ProductID.String()+" not found")
		}
		if !p.IsSellable() {
			return nil, shared.NewDomainError("PRODUCT_NOT_SELLABLE", "Product "+p.SKU+" is discontinued")
		}
		price := p.RetailPrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		lines[i] = trade.OrderLine{
			ProductID:   p.ID,
			SKU:         p.SKU,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Discount:    it.Discount,
		}
	}
	return lines, nil
}

// lockOrder returns a copy of items sorted by product ID. Stock rows are
// always locked in this order so transactions over the same products cannot
// deadlock each other.
func lockOrder[T any](items []T, productID func(T) uuid.UUID) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		pa, pb := productID(a), productID(b)
		return bytes.Compare(pa[:], pb[:])
	})
	return sorted
}

func orderItemProduct(it trade.OrderItem) uuid.UUID { return it.ProductID }
