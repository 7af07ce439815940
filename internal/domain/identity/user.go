package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStatus represents the status of a staff account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetter     = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber     = regexp.MustCompile(`[0-9]`)
)

// User is a staff member of the chain. It carries both login credentials and
// the compensation terms the payroll run reads.
type User struct {
	shared.BaseAggregateRoot
	Username       string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email          string          `gorm:"type:varchar(200);index"`
	PasswordHash   string          `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string          `gorm:"type:varchar(200);not null"`
	Phone          string          `gorm:"type:varchar(50)"`
	Role           Role            `gorm:"type:varchar(2);not null;index"`
	StoreID        *uuid.UUID      `gorm:"type:uuid;index"`
	Status         UserStatus      `gorm:"type:varchar(20);not null;default:'active'"`
	HourlyWage     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BaseSalary     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	HireDate       *time.Time      `gorm:"type:date"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave keeps the username canonical regardless of the write path
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	return nil
}

// Compensation groups the pay terms of a user
type Compensation struct {
	HourlyWage     decimal.Decimal
	BaseSalary     decimal.Decimal
	CommissionRate decimal.Decimal
}

// NewUser creates an active user with a hashed password
func NewUser(username, password, fullName string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of DM, SM, SL, SA")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		Status:            UserStatusActive,
		HourlyWage:        decimal.Zero,
		BaseSalary:        decimal.Zero,
		CommissionRate:    decimal.Zero,
	}, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if len(email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailRegex.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetProfile updates name and phone
func (u *User) SetProfile(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	u.FullName = fullName
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	return nil
}

// AssignStore moves the user to a store. Only a DM may be left unassigned.
func (u *User) AssignStore(storeID *uuid.UUID) error {
	if storeID == nil && u.Role != RoleDistrictManager {
		return shared.NewDomainError("STORE_REQUIRED", "Only district managers may be unassigned from a store")
	}
	u.StoreID = storeID
	u.Touch()
	return nil
}

// ChangeRole changes the user's tier
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be one of DM, SM, SL, SA")
	}
	if role != RoleDistrictManager && u.StoreID == nil {
		return shared.NewDomainError("STORE_REQUIRED", "Store-level roles require an assigned store")
	}
	u.Role = role
	u.Touch()
	return nil
}

// SetCompensation sets wage, salary and commission terms
func (u *User) SetCompensation(c Compensation) error {
	if c.HourlyWage.IsNegative() {
		return shared.NewDomainError("INVALID_WAGE", "Hourly wage cannot be negative")
	}
	if c.BaseSalary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Base salary cannot be negative")
	}
	if c.CommissionRate.IsNegative() || c.CommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 1")
	}
	u.HourlyWage = c.HourlyWage
	u.BaseSalary = c.BaseSalary
	u.CommissionRate = c.CommissionRate
	u.Touch()
	return nil
}

// SetHireDate sets the hire date
func (u *User) SetHireDate(d *time.Time) {
	u.HireDate = d
	u.Touch()
}

// ChangePassword changes the user's password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (manager reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate re-enables a deactivated account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.Touch()
	return nil
}

// Deactivate disables login and excludes the user from payroll runs
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Status = UserStatusInactive
	u.Touch()
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsHourly reports whether pay is wage times hours rather than base salary
func (u *User) IsHourly() bool {
	return !u.Role.IsManager()
}

// BelongsTo reports whether the user is assigned to the given store
func (u *User) BelongsTo(storeID uuid.UUID) bool {
	return u.StoreID != nil && *u.StoreID == storeID
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
