package catalog

import (
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents whether a product may still be sold or reordered
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Metal is the primary material of a piece
type Metal string

const (
	MetalGold      Metal = "gold"
	MetalWhiteGold Metal = "white_gold"
	MetalRoseGold  Metal = "rose_gold"
	MetalSilver    Metal = "silver"
	MetalPlatinum  Metal = "platinum"
	MetalOther     Metal = "other"
)

// IsValid checks the metal against the known list
func (m Metal) IsValid() bool {
	switch m {
	case MetalGold, MetalWhiteGold, MetalRoseGold, MetalSilver, MetalPlatinum, MetalOther:
		return true
	}
	return false
}

// Product is a sellable jewelry item identified by SKU
type Product struct {
	shared.BaseAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	Metal        Metal           `gorm:"type:varchar(20);not null;default:'other'"`
	Purity       string          `gorm:"type:varchar(20)"`
	WeightGrams  decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	RetailPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReorderLevel int             `gorm:"not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails holds the editable attributes of a product
type ProductDetails struct {
	Name         string
	Description  string
	CategoryID   *uuid.UUID
	SupplierID   *uuid.UUID
	Metal        Metal
	Purity       string
	WeightGrams  decimal.Decimal
	CostPrice    decimal.Decimal
	RetailPrice  decimal.Decimal
	ReorderLevel int
}

// NewProduct creates an active product
func NewProduct(sku string, d ProductDetails) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" || len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU must be 1-50 characters")
	}
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Status:            ProductStatusActive,
	}
	if err := p.Update(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable attributes
func (p *Product) Update(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	if d.Metal == "" {
		d.Metal = MetalOther
	}
	if !d.Metal.IsValid() {
		return shared.NewDomainError("INVALID_METAL", "Unknown metal")
	}
	if d.WeightGrams.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}
	if d.CostPrice.IsNegative() || d.RetailPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if d.ReorderLevel < 0 {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}
	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.CategoryID = d.CategoryID
	p.SupplierID = d.SupplierID
	p.Metal = d.Metal
	p.Purity = strings.TrimSpace(d.Purity)
	p.WeightGrams = d.WeightGrams
	p.CostPrice = d.CostPrice
	p.RetailPrice = d.RetailPrice
	p.ReorderLevel = d.ReorderLevel
	p.Touch()
	return nil
}

// Discontinue stops the product from being sold or reordered
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Product is already discontinued")
	}
	p.Status = ProductStatusDiscontinued
	p.Touch()
	return nil
}

// IsSellable reports whether the product may appear on new orders
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive
}
