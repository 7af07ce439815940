package identity

import (
	"context"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(users *MockUserRepository, stores *MockStoreRepository) *UserService {
	return NewUserService(users, stores, nil, time.Hour, zap.NewNop())
}

func activeStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore("NYC1", "Fifth Avenue")
	require.NoError(t, err)
	return s
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("store manager hires into own store by default", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		st := activeStore(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &st.ID}

		stores.On("FindByID", ctx, st.ID).Return(st, nil)
		users.On("ExistsByUsername", ctx, "asmith").Return(false, nil)
		users.On("ExistsByEmail", ctx, "a@shop.test", (*uuid.UUID)(nil)).Return(false, nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		wage := decimal.NewFromInt(18)
		resp, err := newUserService(users, stores).Create(ctx, actor, CreateUserRequest{
			Username:   "asmith",
			Password:   "secret123",
			FullName:   "Anna Smith",
			Email:      "a@shop.test",
			Role:       identity.RoleSalesAssociate,
			HourlyWage: &wage,
		})

		require.NoError(t, err)
		assert.Equal(t, st.ID, *resp.StoreID)
		assert.True(t, wage.Equal(resp.HourlyWage))
		assert.Equal(t, "Sales Associate", resp.RoleName)
		users.AssertExpectations(t)
	})

	t.Run("store manager cannot create another manager", func(t *testing.T) {
		storeID := uuid.New()
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &storeID}

		_, err := newUserService(new(MockUserRepository), new(MockStoreRepository)).Create(ctx, actor, CreateUserRequest{
			Username: "boss2", Password: "secret123", FullName: "Boss", Role: identity.RoleStoreManager,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("store manager cannot hire into another store", func(t *testing.T) {
		own := uuid.New()
		other := uuid.New()
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &own}

		_, err := newUserService(new(MockUserRepository), new(MockStoreRepository)).Create(ctx, actor, CreateUserRequest{
			Username: "clerk", Password: "secret123", FullName: "Clerk", Role: identity.RoleSalesAssociate, StoreID: &other,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := new(MockUserRepository)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleDistrictManager}
		users.On("ExistsByUsername", ctx, "taken").Return(true, nil)

		_, err := newUserService(users, new(MockStoreRepository)).Create(ctx, actor, CreateUserRequest{
			Username: "taken", Password: "secret123", FullName: "Dup", Role: identity.RoleDistrictManager,
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("closed store is rejected", func(t *testing.T) {
		stores := new(MockStoreRepository)
		st := activeStore(t)
		require.NoError(t, st.Close())
		stores.On("FindByID", ctx, st.ID).Return(st, nil)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleDistrictManager}

		_, err := newUserService(new(MockUserRepository), stores).Create(ctx, actor, CreateUserRequest{
			Username: "late", Password: "secret123", FullName: "Late", Role: identity.RoleSalesAssociate, StoreID: &st.ID,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestUserService_GetByID_StoreScope(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	target := newActiveUser(t, identity.RoleSalesAssociate)
	users.On("FindByID", ctx, target.ID).Return(target, nil)
	svc := newUserService(users, new(MockStoreRepository))

	colleague := identity.Actor{UserID: uuid.New(), Role: identity.RoleShiftLeader, StoreID: target.StoreID}
	_, err := svc.GetByID(ctx, colleague, target.ID)
	assert.NoError(t, err)

	otherStore := uuid.New()
	outsider := identity.Actor{UserID: uuid.New(), Role: identity.RoleShiftLeader, StoreID: &otherStore}
	_, err = svc.GetByID(ctx, outsider, target.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	self := identity.Actor{UserID: target.ID, Role: identity.RoleSalesAssociate, StoreID: &otherStore}
	_, err = svc.GetByID(ctx, self, target.ID)
	assert.NoError(t, err)
}

func TestUserService_List_PinsStore(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	own := uuid.New()
	actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleShiftLeader, StoreID: &own}

	matchesStore := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["store_id"] == own && f.Page == 2 && f.PageSize == 20
	})
	users.On("FindAll", ctx, matchesStore).Return([]identity.User{}, nil)
	users.On("Count", ctx, matchesStore).Return(int64(0), nil)

	filter := UserListFilter{}
	filter.Page = 2
	_, total, err := newUserService(users, new(MockStoreRepository)).List(ctx, actor, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	users.AssertExpectations(t)
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot deactivate self", func(t *testing.T) {
		id := uuid.New()
		actor := identity.Actor{UserID: id, Role: identity.RoleDistrictManager}
		err := newUserService(new(MockUserRepository), new(MockStoreRepository)).Deactivate(ctx, actor, id)
		require.Error(t, err)
	})

	t.Run("store manager deactivates associate", func(t *testing.T) {
		users := new(MockUserRepository)
		target := newActiveUser(t, identity.RoleSalesAssociate)
		users.On("FindByID", ctx, target.ID).Return(target, nil)
		users.On("SaveWithLock", ctx, target).Return(nil)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: target.StoreID}

		err := newUserService(users, new(MockStoreRepository)).Deactivate(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.False(t, target.IsActive())
	})
}

func TestUserService_Update_RoleChangeNeedsRank(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	target := newActiveUser(t, identity.RoleSalesAssociate)
	users.On("FindByID", ctx, target.ID).Return(target, nil)
	actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: target.StoreID}

	promote := identity.RoleStoreManager
	_, err := newUserService(users, new(MockStoreRepository)).Update(ctx, actor, target.ID, UpdateUserRequest{Role: &promote})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	users.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
