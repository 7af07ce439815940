package store

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
)

// CreateStoreRequest represents a request to open a store
type CreateStoreRequest struct {
	Code     string     `json:"code" binding:"required,min=1,max=20"`
	Name     string     `json:"name" binding:"required,max=200"`
	Address  string     `json:"address" binding:"omitempty,max=500"`
	City     string     `json:"city" binding:"omitempty,max=100"`
	Phone    string     `json:"phone" binding:"omitempty,max=50"`
	OpenedOn *time.Time `json:"opened_on"`
	// SkipWarehouse leaves the store without a back-room warehouse
	SkipWarehouse bool `json:"skip_warehouse"`
}

// UpdateStoreRequest represents a request to update a store
type UpdateStoreRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Address   *string    `json:"address" binding:"omitempty,max=500"`
	City      *string    `json:"city" binding:"omitempty,max=100"`
	Phone     *string    `json:"phone" binding:"omitempty,max=50"`
	OpenedOn  *time.Time `json:"opened_on"`
	ManagerID *uuid.UUID `json:"manager_id"`
}

// StoreListFilter represents filter options for the store list
type StoreListFilter struct {
	common.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=active closed"`
	City   string `form:"city"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	Status      string     `json:"status"`
	OpenedOn    *time.Time `json:"opened_on,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		Phone:     s.Phone,
		ManagerID: s.ManagerID,
		Status:    string(s.Status),
		OpenedOn:  s.OpenedOn,
		ClosedAt:  s.ClosedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToStoreResponses converts a slice of stores
func ToStoreResponses(stores []store.Store) []StoreResponse {
	out := make([]StoreResponse, len(stores))
	for i := range stores {
		out[i] = ToStoreResponse(&stores[i])
	}
	return out
}
