package inventory

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarehouseService handles warehouse operations. The warehouse directory is
// visible to every role so that transfers can name the other end.
type WarehouseService struct {
	warehouseRepo inventory.WarehouseRepository
	storeRepo     store.StoreRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo inventory.WarehouseRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		storeRepo:     storeRepo,
		logger:        logger,
	}
}

// Create creates a warehouse, either a store back room or a store-less vault
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Warehouse with this code already exists")
	}

	if req.StoreID != nil {
		st, err := s.storeRepo.FindByID(ctx, *req.StoreID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store not found")
			}
			return nil, err
		}
		if !st.IsActive() {
			return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Store is closed")
		}
	}

	warehouse, err := inventory.NewWarehouse(req.Code, req.Name, req.StoreID)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		if err := warehouse.Update(warehouse.Name, req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	s.logger.Info("Warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code),
		zap.Bool("central", warehouse.StoreID == nil))
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List returns warehouses
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	f := filter.PageQuery.Filter()
	if filter.StoreID != nil {
		f = f.With("store_id", *filter.StoreID)
	}
	if filter.IsActive != nil {
		f = f.With("is_active", *filter.IsActive)
	}
	warehouses, err := s.warehouseRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		out[i] = ToWarehouseResponse(&warehouses[i])
	}
	return out, total, nil
}

// Update changes a warehouse's name or address
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, address := warehouse.Name, warehouse.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := warehouse.Update(name, address); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Deactivate takes a warehouse out of transfers and sales
func (s *WarehouseService) Deactivate(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := warehouse.Deactivate(); err != nil {
		return err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return err
	}
	s.logger.Info("Warehouse deactivated", zap.String("warehouse_id", id.String()), zap.String("code", warehouse.Code))
	return nil
}

// activeWarehouse loads a warehouse that can still move stock
func activeWarehouse(ctx context.Context, repo inventory.WarehouseRepository, id uuid.UUID, role string) (*inventory.Warehouse, error) {
	warehouse, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, role+" warehouse not found")
		}
		return nil, err
	}
	if !warehouse.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, role+" warehouse is inactive")
	}
	return warehouse, nil
}
