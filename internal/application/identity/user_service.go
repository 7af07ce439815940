package identity

import (
	"context"
	"errors"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserService manages staff accounts
type UserService struct {
	userRepo    identity.UserRepository
	storeRepo   store.StoreRepository
	revocations auth.RevocationStore
	revokeTTL   time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new UserService. revocations may be nil;
// revokeTTL should cover the refresh token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	storeRepo store.StoreRepository,
	revocations auth.RevocationStore,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		revocations: revocations,
		revokeTTL:   revokeTTL,
		logger:      logger,
	}
}

// Create creates a staff account. A store manager may only hire shift
// leaders and sales associates into their own store.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.Role.CanManage(req.Role) {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Not allowed to create a user with role "+req.Role.String())
	}

	storeID := req.StoreID
	if storeID == nil && !actor.Role.IsChainWide() && req.Role != identity.RoleDistrictManager {
		storeID = actor.StoreID
	}
	if storeID != nil {
		if err := actor.CheckStore(*storeID); err != nil {
			return nil, err
		}
		if err := s.requireActiveStore(ctx, *storeID); err != nil {
			return nil, err
		}
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already taken")
	}
	if req.Email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, req.Email, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email already in use")
		}
	}

	user, err := identity.NewUser(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		return nil, err
	}
	if err := user.AssignStore(storeID); err != nil {
		return nil, err
	}
	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.SetProfile(req.FullName, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := user.SetCompensation(identity.Compensation{
		HourlyWage:     valueOr(req.HourlyWage, decimal.Zero),
		BaseSalary:     valueOr(req.BaseSalary, decimal.Zero),
		CommissionRate: valueOr(req.CommissionRate, decimal.Zero),
	}); err != nil {
		return nil, err
	}
	user.SetHireDate(req.HireDate)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()),
		zap.String("created_by", actor.UserID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user visible to the actor
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVisible(actor, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List returns users, restricted to the actor's store below DM
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter UserListFilter) ([]UserResponse, int64, error) {
	storeID, err := actor.ScopeStore(filter.StoreID)
	if err != nil {
		return nil, 0, err
	}

	f := filter.PageQuery.Filter()
	if filter.Role != "" {
		f = f.With("role", filter.Role)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if storeID != nil {
		f = f.With("store_id", *storeID)
	}

	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update applies a partial update to a staff account
func (s *UserService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkManageable(actor, user); err != nil {
		return nil, err
	}

	if req.FullName != nil || req.Phone != nil {
		fullName, phone := user.FullName, user.Phone
		if req.FullName != nil {
			fullName = *req.FullName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := user.SetProfile(fullName, phone); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != user.Email {
		if *req.Email != "" {
			exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email, &user.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email already in use")
			}
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	// store before role so a promotion to DM can drop the store and a
	// demotion from DM can pick one up in the same request
	if req.StoreID != nil {
		if err := actor.CheckStore(*req.StoreID); err != nil {
			return nil, err
		}
		if err := s.requireActiveStore(ctx, *req.StoreID); err != nil {
			return nil, err
		}
		if err := user.AssignStore(req.StoreID); err != nil {
			return nil, err
		}
	}
	if req.Role != nil && *req.Role != user.Role {
		if !actor.Role.CanManage(*req.Role) {
			return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Not allowed to assign role "+req.Role.String())
		}
		if err := user.ChangeRole(*req.Role); err != nil {
			return nil, err
		}
	}
	if req.ClearStore {
		if err := user.AssignStore(nil); err != nil {
			return nil, err
		}
	}

	if req.HourlyWage != nil || req.BaseSalary != nil || req.CommissionRate != nil {
		if err := user.SetCompensation(identity.Compensation{
			HourlyWage:     valueOr(req.HourlyWage, user.HourlyWage),
			BaseSalary:     valueOr(req.BaseSalary, user.BaseSalary),
			CommissionRate: valueOr(req.CommissionRate, user.CommissionRate),
		}); err != nil {
			return nil, err
		}
	}
	if req.HireDate != nil {
		user.SetHireDate(req.HireDate)
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", actor.UserID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables the account and revokes its tokens
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkManageable(actor, user); err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, user.ID.String(), s.revokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens of deactivated user",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("User deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("deactivated_by", actor.UserID.String()))
	return nil
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkManageable(actor, user); err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	return s.userRepo.SaveWithLock(ctx, user)
}

func (s *UserService) requireActiveStore(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.ErrInvalidInput.Code, "Store does not exist")
		}
		return err
	}
	if !st.IsActive() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Store is closed")
	}
	return nil
}

// checkVisible lets everyone see themselves and store staff see colleagues
func checkVisible(actor identity.Actor, user *identity.User) error {
	if actor.UserID == user.ID || actor.Role.IsChainWide() {
		return nil
	}
	if user.StoreID == nil {
		return shared.NewDomainError(shared.ErrForbidden.Code, "Record belongs to another store")
	}
	return actor.CheckStore(*user.StoreID)
}

func checkManageable(actor identity.Actor, user *identity.User) error {
	if !actor.Role.CanManage(user.Role) {
		return shared.NewDomainError(shared.ErrForbidden.Code, "Not allowed to manage a user with role "+user.Role.String())
	}
	if actor.Role.IsChainWide() {
		return nil
	}
	if user.StoreID == nil {
		return shared.NewDomainError(shared.ErrForbidden.Code, "Record belongs to another store")
	}
	return actor.CheckStore(*user.StoreID)
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
