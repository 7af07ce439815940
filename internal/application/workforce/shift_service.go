package workforce

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShiftService schedules staff
type ShiftService struct {
	shiftRepo workforce.ShiftRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewShiftService creates a new ShiftService
func NewShiftService(shiftRepo workforce.ShiftRepository, userRepo identity.UserRepository, logger *zap.Logger) *ShiftService {
	return &ShiftService{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Create schedules a shift for an active member of the store. A user can
// hold only one scheduled shift at a time.
func (s *ShiftService) Create(ctx context.Context, actor identity.Actor, req CreateShiftRequest) (*ShiftResponse, error) {
	storeID := actor.StoreID
	if req.StoreID != nil {
		storeID = req.StoreID
	}
	if storeID == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store is required")
	}
	if err := actor.CheckStore(*storeID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "User not found")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() || !user.BelongsTo(*storeID) {
		return nil, shared.NewDomainError("INVALID_STAFF", "User must be active staff of the store")
	}

	shift, err := workforce.NewShift(*storeID, user.ID, req.StartsAt, req.EndsAt, actor.UserID)
	if err != nil {
		return nil, err
	}
	shift.SetNotes(req.Notes)
	if err := s.checkOverlap(ctx, shift, nil); err != nil {
		return nil, err
	}

	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.logger.Info("Shift scheduled",
		zap.String("shift_id", shift.ID.String()),
		zap.String("user", user.Username),
		zap.Time("starts_at", shift.StartsAt))

	response := ToShiftResponse(shift)
	return &response, nil
}

// Update moves a scheduled shift or changes its notes
func (s *ShiftService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateShiftRequest) (*ShiftResponse, error) {
	shift, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.StartsAt != nil || req.EndsAt != nil {
		start, end := shift.StartsAt, shift.EndsAt
		if req.StartsAt != nil {
			start = *req.StartsAt
		}
		if req.EndsAt != nil {
			end = *req.EndsAt
		}
		if err := shift.Reschedule(start, end); err != nil {
			return nil, err
		}
		if err := s.checkOverlap(ctx, shift, &shift.ID); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		shift.SetNotes(*req.Notes)
	}

	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	response := ToShiftResponse(shift)
	return &response, nil
}

// Cancel calls off a scheduled shift
func (s *ShiftService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ShiftResponse, error) {
	shift, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := shift.Cancel(); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.logger.Info("Shift cancelled", zap.String("shift_id", shift.ID.String()))

	response := ToShiftResponse(shift)
	return &response, nil
}

// Get retrieves a shift visible to the actor
func (s *ShiftService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ShiftResponse, error) {
	shift, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	response := ToShiftResponse(shift)
	return &response, nil
}

// List returns shifts ordered by start, pinned to the actor's store for store staff
func (s *ShiftService) List(ctx context.Context, actor identity.Actor, filter ShiftListFilter) ([]ShiftResponse, int64, error) {
	storeID, err := actor.ScopeStore(filter.StoreID)
	if err != nil {
		return nil, 0, err
	}
	f := filter.PageQuery.Filter().With("status", filter.Status)
	if filter.OrderBy == "" {
		f.OrderBy, f.OrderDir = "starts_at", "asc"
	}
	if storeID != nil {
		f = f.With("store_id", *storeID)
	}
	if filter.UserID != nil {
		f = f.With("user_id", *filter.UserID)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		f = f.With("to", filter.To.AddDate(0, 0, 1))
	}

	shifts, err := s.shiftRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.shiftRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ShiftResponse, len(shifts))
	for i := range shifts {
		out[i] = ToShiftResponse(&shifts[i])
	}
	return out, total, nil
}

func (s *ShiftService) visible(ctx context.Context, actor identity.Actor, id uuid.UUID) (*workforce.Shift, error) {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStore(shift.StoreID); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *ShiftService) checkOverlap(ctx context.Context, shift *workforce.Shift, excludeID *uuid.UUID) error {
	clashes, err := s.shiftRepo.FindOverlapping(ctx, shift.UserID, shift.StartsAt, shift.EndsAt, excludeID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		return shared.NewDomainError("SHIFT_OVERLAP", "User already has a scheduled shift in this window")
	}
	return nil
}
