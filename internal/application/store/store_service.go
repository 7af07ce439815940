package store

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreService handles store lifecycle operations
type StoreService struct {
	storeRepo     store.StoreRepository
	warehouseRepo inventory.WarehouseRepository
	userRepo      identity.UserRepository
	txManager     shared.TxManager
	logger        *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo store.StoreRepository,
	warehouseRepo inventory.WarehouseRepository,
	userRepo identity.UserRepository,
	txManager shared.TxManager,
	logger *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo:     storeRepo,
		warehouseRepo: warehouseRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Create opens a store together with its back-room warehouse
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	exists, err := s.storeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Store with this code already exists")
	}

	st, err := store.NewStore(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := st.Update(req.Name, req.Address, req.City, req.Phone, req.OpenedOn); err != nil {
		return nil, err
	}

	var warehouse *inventory.Warehouse
	if !req.SkipWarehouse {
		taken, err := s.warehouseRepo.ExistsByCode(ctx, st.WarehouseCode())
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Warehouse "+st.WarehouseCode()+" already exists")
		}
		warehouse, err = inventory.NewWarehouse(st.WarehouseCode(), st.Name+" Back Room", &st.ID)
		if err != nil {
			return nil, err
		}
		if err := warehouse.Update(warehouse.Name, st.Address); err != nil {
			return nil, err
		}
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.storeRepo.Save(ctx, st); err != nil {
			return err
		}
		if warehouse != nil {
			return s.warehouseRepo.Save(ctx, warehouse)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store created",
		zap.String("store_id", st.ID.String()),
		zap.String("code", st.Code),
		zap.Bool("with_warehouse", warehouse != nil))

	response := ToStoreResponse(st)
	if warehouse != nil {
		response.WarehouseID = &warehouse.ID
	}
	return &response, nil
}

// GetByID retrieves a store with its back-room warehouse ID
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(st)
	wh, err := s.warehouseRepo.FindByStore(ctx, st.ID)
	switch {
	case err == nil:
		response.WarehouseID = &wh.ID
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return &response, nil
}

// List returns stores. The store directory is visible to every role.
func (s *StoreService) List(ctx context.Context, filter StoreListFilter) ([]StoreResponse, int64, error) {
	f := filter.PageQuery.Filter()
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.City != "" {
		f = f.With("city", filter.City)
	}
	stores, err := s.storeRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.storeRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToStoreResponses(stores), total, nil
}

// Update changes store details and optionally the assigned manager
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, address, city, phone, openedOn := st.Name, st.Address, st.City, st.Phone, st.OpenedOn
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.City != nil {
		city = *req.City
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.OpenedOn != nil {
		openedOn = req.OpenedOn
	}
	if err := st.Update(name, address, city, phone, openedOn); err != nil {
		return nil, err
	}

	if req.ManagerID != nil {
		manager, err := s.userRepo.FindByID(ctx, *req.ManagerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Manager does not exist")
			}
			return nil, err
		}
		if manager.Role != identity.RoleStoreManager || !manager.BelongsTo(st.ID) {
			return nil, shared.NewDomainError("INVALID_MANAGER", "Manager must be a store manager assigned to this store")
		}
		st.AssignManager(&manager.ID)
	}

	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	response := ToStoreResponse(st)
	return &response, nil
}

// Close stops trading at the store and deactivates its back-room warehouse
func (s *StoreService) Close(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		st, err := s.storeRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := st.Close(); err != nil {
			return err
		}
		if err := s.storeRepo.Save(ctx, st); err != nil {
			return err
		}

		wh, err := s.warehouseRepo.FindByStore(ctx, st.ID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if wh.IsActive {
			if err := wh.Deactivate(); err != nil {
				return err
			}
			if err := s.warehouseRepo.Save(ctx, wh); err != nil {
				return err
			}
		}
		s.logger.Info("Store closed", zap.String("store_id", st.ID.String()), zap.String("code", st.Code))
		return nil
	})
}
