package inventory

import (
	"bytes"
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

// TransferService runs the request, approve and complete workflow for
// moving stock between warehouses
type TransferService struct {
	transferRepo  inventory.TransferRepository
	itemRepo      inventory.InventoryItemRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	sequences     shared.SequenceGenerator
	txManager     shared.TxManager
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo inventory.TransferRepository,
	itemRepo inventory.InventoryItemRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		transferRepo:  transferRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		sequences:     sequences,
		txManager:     txManager,
		publisher:     publisher,
		logger:        logger,
	}
}

// RequestTransfer opens a pending transfer. Store staff may only request
// transfers that touch their own store.
func (s *TransferService) RequestTransfer(ctx context.Context, actor identity.Actor, req RequestTransferRequest) (*TransferResponse, error) {
	if req.SourceWarehouseID == req.DestinationWarehouseID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if err := shared.CheckQuantity(req.Quantity); err != nil {
		return nil, err
	}
	source, err := activeWarehouse(ctx, s.warehouseRepo, req.SourceWarehouseID, "Source")
	if err != nil {
		return nil, err
	}
	destination, err := activeWarehouse(ctx, s.warehouseRepo, req.DestinationWarehouseID, "Destination")
	if err != nil {
		return nil, err
	}
	if err := checkEitherEnd(actor, source, destination); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Product not found")
		}
		return nil, err
	}

	number, err := s.sequences.Next(ctx, shared.SequenceTransfer)
	if err != nil {
		return nil, err
	}
	transfer, err := inventory.NewInventoryTransfer(number, source.ID, destination.ID, req.ProductID, req.Quantity, actor.UserID)
	if err != nil {
		return nil, err
	}
	transfer.Notes = req.Notes

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	s.logger.Info("Transfer requested",
		zap.String("transfer_number", transfer.TransferNumber),
		zap.String("source", source.Code),
		zap.String("destination", destination.Code),
		zap.Int("quantity", transfer.Quantity))
	common.PublishEvents(ctx, s.publisher, s.logger, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// ApproveTransfer accepts a pending transfer. The approver must manage the
// source side, which is the side giving up stock.
func (s *TransferService) ApproveTransfer(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TransferResponse, error) {
	return s.decide(ctx, actor, id, func(t *inventory.InventoryTransfer) error {
		return t.Approve(actor.UserID)
	})
}

// RejectTransfer declines a pending transfer with a reason
func (s *TransferService) RejectTransfer(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*TransferResponse, error) {
	return s.decide(ctx, actor, id, func(t *inventory.InventoryTransfer) error {
		return t.Reject(actor.UserID, reason)
	})
}

func (s *TransferService) decide(ctx context.Context, actor identity.Actor, id uuid.UUID, apply func(*inventory.InventoryTransfer) error) (*TransferResponse, error) {
	var transfer *inventory.InventoryTransfer
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		transfer, err = s.transferRepo.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		source, err := s.warehouseRepo.FindByID(ctx, transfer.SourceWarehouseID)
		if err != nil {
			return err
		}
		if err := actor.CheckLocation(source.StoreID); err != nil {
			return err
		}
		if err := apply(transfer); err != nil {
			return err
		}
		return s.transferRepo.Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer decided",
		zap.String("transfer_number", transfer.TransferNumber),
		zap.String("status", transfer.Status.String()),
		zap.String("user_id", actor.UserID.String()))
	common.PublishEvents(ctx, s.publisher, s.logger, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// CompleteTransfer moves the stock of an approved transfer. Everything runs
// in one transaction: the transfer row is locked first so concurrent
// completions serialize and only the first sees the approved status. Both
// stock rows are locked before the source is checked, so concurrent transfers
// from the same source cannot drive it negative.
func (s *TransferService) CompleteTransfer(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TransferResponse, error) {
	var transfer *inventory.InventoryTransfer
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		transfer, err = s.transferRepo.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		source, err := s.warehouseRepo.FindByID(ctx, transfer.SourceWarehouseID)
		if err != nil {
			return err
		}
		destination, err := s.warehouseRepo.FindByID(ctx, transfer.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if err := checkEitherEnd(actor, source, destination); err != nil {
			return err
		}
		if err := transfer.Complete(actor.UserID); err != nil {
			return err
		}
		if !source.IsActive || !destination.IsActive {
			return shared.NewDomainError(shared.ErrInvalidState.Code, "Both warehouses must be active")
		}

		// rows are locked in warehouse ID order so opposite transfers cannot deadlock
		var from, to *inventory.InventoryItem
		lockFrom := func() error {
			from, err = s.itemRepo.FindForUpdate(ctx, transfer.SourceWarehouseID, transfer.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrInsufficientStock.Code, "No stock of this product at the source warehouse")
			}
			return err
		}
		lockTo := func() error {
			to, err = s.itemRepo.GetOrCreateForUpdate(ctx, transfer.DestinationWarehouseID, transfer.ProductID)
			return err
		}
		locks := []func() error{lockFrom, lockTo}
		if bytes.Compare(transfer.DestinationWarehouseID[:], transfer.SourceWarehouseID[:]) < 0 {
			locks[0], locks[1] = lockTo, lockFrom
		}
		for _, lock := range locks {
			if err := lock(); err != nil {
				return err
			}
		}
		if err := from.Decrease(transfer.Quantity); err != nil {
			return err
		}
		cost := from.UnitCost
		if err := to.Increase(transfer.Quantity, &cost); err != nil {
			return err
		}

		if err := s.itemRepo.Save(ctx, from); err != nil {
			return err
		}
		if err := s.itemRepo.Save(ctx, to); err != nil {
			return err
		}
		return s.transferRepo.Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		zap.String("transfer_number", transfer.TransferNumber),
		zap.Int("quantity", transfer.Quantity),
		zap.String("user_id", actor.UserID.String()))
	common.PublishEvents(ctx, s.publisher, s.logger, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetTransfer retrieves a transfer visible to the actor
func (s *TransferService) GetTransfer(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsChainWide() {
		source, err := s.warehouseRepo.FindByID(ctx, transfer.SourceWarehouseID)
		if err != nil {
			return nil, err
		}
		destination, err := s.warehouseRepo.FindByID(ctx, transfer.DestinationWarehouseID)
		if err != nil {
			return nil, err
		}
		if err := checkEitherEnd(actor, source, destination); err != nil {
			return nil, err
		}
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// ListTransfers returns transfers. Store staff see transfers that touch
// one of their store's warehouses.
func (s *TransferService) ListTransfers(ctx context.Context, actor identity.Actor, filter TransferListFilter) ([]TransferResponse, int64, error) {
	storeID, err := actor.ScopeStore(nil)
	if err != nil {
		return nil, 0, err
	}

	f := filter.PageQuery.Filter().With("status", filter.Status)
	if filter.WarehouseID != nil {
		f = f.With("warehouse_id", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		f = f.With("product_id", *filter.ProductID)
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

	transfers, err := s.transferRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TransferResponse, len(transfers))
	for i := range transfers {
		out[i] = ToTransferResponse(&transfers[i])
	}
	return out, total, nil
}

func checkEitherEnd(actor identity.Actor, source, destination *inventory.Warehouse) error {
	if actor.CheckLocation(source.StoreID) == nil || actor.CheckLocation(destination.StoreID) == nil {
		return nil
	}
	return shared.NewDomainError(shared.ErrForbidden.Code, "Transfer does not involve your store")
}
