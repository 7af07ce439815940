package store

import (
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreStatus represents the trading status of a store
type StoreStatus string

const (
	StoreStatusActive StoreStatus = "active"
	StoreStatusClosed StoreStatus = "closed"
)

// IsValid checks if the status is known
func (s StoreStatus) IsValid() bool {
	return s == StoreStatusActive || s == StoreStatusClosed
}

// Store is a retail location of the chain
type Store struct {
	shared.BaseAggregateRoot
	Code      string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name      string      `gorm:"type:varchar(200);not null"`
	Address   string      `gorm:"type:varchar(500)"`
	City      string      `gorm:"type:varchar(100);index"`
	Phone     string      `gorm:"type:varchar(50)"`
	ManagerID *uuid.UUID  `gorm:"type:uuid;index"`
	Status    StoreStatus `gorm:"type:varchar(20);not null;default:'active'"`
	OpenedOn  *time.Time  `gorm:"type:date"`
	ClosedAt  *time.Time
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates an active store
func NewStore(code, name string) (*Store, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            StoreStatusActive,
	}, nil
}

// Update replaces the descriptive fields
func (s *Store) Update(name, address, city, phone string, openedOn *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	s.Name = name
	s.Address = strings.TrimSpace(address)
	s.City = strings.TrimSpace(city)
	s.Phone = strings.TrimSpace(phone)
	s.OpenedOn = openedOn
	s.Touch()
	return nil
}

// AssignManager sets the store manager
func (s *Store) AssignManager(managerID *uuid.UUID) {
	s.ManagerID = managerID
	s.Touch()
}

// Close stops trading at the store
func (s *Store) Close() error {
	if s.Status == StoreStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Store is already closed")
	}
	now := time.Now()
	s.Status = StoreStatusClosed
	s.ClosedAt = &now
	s.Touch()
	return nil
}

// IsActive reports whether the store is trading
func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}

// WarehouseCode is the code of the back-room warehouse created with the store
func (s *Store) WarehouseCode() string {
	return s.Code + "-WH"
}
