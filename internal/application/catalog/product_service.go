package catalog

import (
	"context"
	"errors"

	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/partner"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Product with this SKU already exists")
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.SupplierID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.SKU, catalog.ProductDetails{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Metal:        req.Metal,
		Purity:       req.Purity,
		WeightGrams:  req.WeightGrams,
		CostPrice:    req.CostPrice,
		RetailPrice:  req.RetailPrice,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := filter.PageQuery.Filter()
	if filter.CategoryID != nil {
		f = f.With("category_id", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		f = f.With("supplier_id", *filter.SupplierID)
	}
	f = f.With("status", filter.Status).With("metal", filter.Metal)

	products, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, total, nil
}

// Update changes the editable attributes of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.SupplierID); err != nil {
		return nil, err
	}

	d := details(product)
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.CategoryID != nil {
		d.CategoryID = req.CategoryID
	}
	if req.SupplierID != nil {
		d.SupplierID = req.SupplierID
	}
	if req.Metal != nil {
		d.Metal = *req.Metal
	}
	if req.Purity != nil {
		d.Purity = *req.Purity
	}
	if req.WeightGrams != nil {
		d.WeightGrams = *req.WeightGrams
	}
	if req.CostPrice != nil {
		d.CostPrice = *req.CostPrice
	}
	if req.RetailPrice != nil {
		d.RetailPrice = *req.RetailPrice
	}
	if req.ReorderLevel != nil {
		d.ReorderLevel = *req.ReorderLevel
	}
	if err := product.Update(d); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Discontinue stops a product from being sold or reordered
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Discontinue(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product discontinued", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) checkReferences(ctx context.Context, categoryID, supplierID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrInvalidInput.Code, "Category not found")
			}
			return err
		}
	}
	if supplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrInvalidInput.Code, "Supplier not found")
			}
			return err
		}
	}
	return nil
}
