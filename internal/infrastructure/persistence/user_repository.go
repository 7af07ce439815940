package persistence

import (
	"context"
	"strings"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := conn(ctx, r.db).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByUsername finds a user by username, case-insensitively
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var u identity.User
	err := conn(ctx, r.db).First(&u, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindAll finds users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	q := paginate(r.filtered(ctx, filter), filter, UserSortFields, "username")
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormUserRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&identity.User{})
	q = search(q, f.Search, "username", "full_name", "email")
	q = eq(q, f, "role", "role")
	q = eq(q, f, "store_id", "store_id")
	q = eq(q, f, "status", "status")
	return q
}

// FindPayable returns active users with a store assigned
func (r *GormUserRepository) FindPayable(ctx context.Context) ([]identity.User, error) {
	var users []identity.User
	err := conn(ctx, r.db).
		Where("status = ? AND store_id IS NOT NULL", identity.UserStatusActive).
		Order("username").
		Find(&users).Error
	return users, err
}

// ExistsByUsername checks if a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(conn(ctx, r.db), &identity.User{}, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

// ExistsByEmail checks if an email is used by another user
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	if excludeID != nil {
		return exists(conn(ctx, r.db), &identity.User{}, "email = ? AND id <> ?", email, *excludeID)
	}
	return exists(conn(ctx, r.db), &identity.User{}, "email = ?", email)
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return save(conn(ctx, r.db), u)
}

// SaveWithLock updates a user with optimistic locking
func (r *GormUserRepository) SaveWithLock(ctx context.Context, u *identity.User) error {
	return saveWithLock(conn(ctx, r.db), u)
}
