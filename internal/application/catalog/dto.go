package catalog

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
}

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	common.PageQuery
	ParentID *uuid.UUID `form:"parent_id" parser:"encoding.TextUnmarshaler"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	Metal        catalog.Metal   `json:"metal" binding:"omitempty,oneof=gold white_gold rose_gold silver platinum other"`
	Purity       string          `json:"purity" binding:"omitempty,max=20"`
	WeightGrams  decimal.Decimal `json:"weight_grams"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	ReorderLevel int             `json:"reorder_level" binding:"omitempty,min=0,max=1000000"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields keep their current value.
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	Metal        *catalog.Metal   `json:"metal" binding:"omitempty,oneof=gold white_gold rose_gold silver platinum other"`
	Purity       *string          `json:"purity" binding:"omitempty,max=20"`
	WeightGrams  *decimal.Decimal `json:"weight_grams"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	RetailPrice  *decimal.Decimal `json:"retail_price"`
	ReorderLevel *int             `json:"reorder_level" binding:"omitempty,min=0,max=1000000"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	common.PageQuery
	CategoryID *uuid.UUID `form:"category_id" parser:"encoding.TextUnmarshaler"`
	SupplierID *uuid.UUID `form:"supplier_id" parser:"encoding.TextUnmarshaler"`
	Status     string     `form:"status" binding:"omitempty,oneof=active discontinued"`
	Metal      string     `form:"metal"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Metal        string          `json:"metal"`
	Purity       string          `json:"purity,omitempty"`
	WeightGrams  decimal.Decimal `json:"weight_grams"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	ReorderLevel int             `json:"reorder_level"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		Metal:        string(p.Metal),
		Purity:       p.Purity,
		WeightGrams:  p.WeightGrams,
		CostPrice:    p.CostPrice,
		RetailPrice:  p.RetailPrice,
		ReorderLevel: p.ReorderLevel,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func details(p *catalog.Product) catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		Metal:        p.Metal,
		Purity:       p.Purity,
		WeightGrams:  p.WeightGrams,
		CostPrice:    p.CostPrice,
		RetailPrice:  p.RetailPrice,
		ReorderLevel: p.ReorderLevel,
	}
}
