package identity

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains the user information handed to the client with tokens
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	FullName    string
	Email       string
	Role        identity.Role
	RoleName    string
	StoreID     *uuid.UUID
	Permissions []string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the tokens to revoke on logout
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	TokenTTL     time.Duration
	RefreshToken string // optional; revoked too when present
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserRequest represents a request to create a staff account
type CreateUserRequest struct {
	Username       string           `json:"username" binding:"required,min=3,max=100"`
	Password       string           `json:"password" binding:"required,min=8,max=72"`
	FullName       string           `json:"full_name" binding:"required,max=200"`
	Email          string           `json:"email" binding:"omitempty,email,max=200"`
	Phone          string           `json:"phone" binding:"omitempty,max=50"`
	Role           identity.Role    `json:"role" binding:"required,oneof=DM SM SL SA"`
	StoreID        *uuid.UUID       `json:"store_id"`
	HourlyWage     *decimal.Decimal `json:"hourly_wage"`
	BaseSalary     *decimal.Decimal `json:"base_salary"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	HireDate       *time.Time       `json:"hire_date"`
}

// UpdateUserRequest represents a partial update of a staff account
type UpdateUserRequest struct {
	FullName       *string          `json:"full_name" binding:"omitempty,min=1,max=200"`
	Email          *string          `json:"email" binding:"omitempty,max=200"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	Role           *identity.Role   `json:"role" binding:"omitempty,oneof=DM SM SL SA"`
	StoreID        *uuid.UUID       `json:"store_id"`
	ClearStore     bool             `json:"clear_store"`
	HourlyWage     *decimal.Decimal `json:"hourly_wage"`
	BaseSalary     *decimal.Decimal `json:"base_salary"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	HireDate       *time.Time       `json:"hire_date"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	common.PageQuery
	Role    string     `form:"role" binding:"omitempty,oneof=DM SM SL SA"`
	StoreID *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	Status  string     `form:"status" binding:"omitempty,oneof=active inactive"`
}

// UserResponse represents a staff account in API responses
type UserResponse struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email,omitempty"`
	FullName       string          `json:"full_name"`
	Phone          string          `json:"phone,omitempty"`
	Role           identity.Role   `json:"role"`
	RoleName       string          `json:"role_name"`
	StoreID        *uuid.UUID      `json:"store_id,omitempty"`
	Status         string          `json:"status"`
	HourlyWage     decimal.Decimal `json:"hourly_wage"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	HireDate       *time.Time      `json:"hire_date,omitempty"`
	LastLoginAt    *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Role:           u.Role,
		RoleName:       u.Role.DisplayName(),
		StoreID:        u.StoreID,
		Status:         string(u.Status),
		HourlyWage:     u.HourlyWage,
		BaseSalary:     u.BaseSalary,
		CommissionRate: u.CommissionRate,
		HireDate:       u.HireDate,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Version:        u.Version,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		RoleName:    u.Role.DisplayName(),
		StoreID:     u.StoreID,
		Permissions: u.Role.Permissions(),
	}
}
