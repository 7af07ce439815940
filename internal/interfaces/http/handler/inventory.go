package handler

import (
	inventoryapp "github.com/gemline/backoffice/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse-related API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *inventoryapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *inventoryapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create godoc
// @Summary      Create a warehouse
// @Description  A warehouse without store_id is the central vault
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateWarehouseRequest true "Warehouse"
// @Success      201 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID godoc
// @Summary      Get a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID"
// @Success      200 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List godoc
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        store_id query string false "Store ID"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} dto.Response{data=[]inventoryapp.WarehouseResponse}
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	var filter inventoryapp.WarehouseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	warehouses, total, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, warehouses, total, filter.PageQuery)
}

// Update godoc
// @Summary      Update a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID"
// @Param        request body inventoryapp.UpdateWarehouseRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Deactivate godoc
// @Summary      Deactivate a warehouse
// @Tags         warehouses
// @Param        id path string true "Warehouse ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id}/deactivate [post]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.warehouseService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// InventoryHandler handles stock levels
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// List godoc
// @Summary      List stock levels
// @Description  Store staff only see the warehouses of their own store
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id query string false "Warehouse ID"
// @Param        product_id query string false "Product ID"
// @Param        store_id query string false "Store ID"
// @Param        low_stock query bool false "Only rows at or below the reorder level"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockResponse}
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter inventoryapp.StockListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.stockService.ListStock(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, filter.PageQuery)
}

// Get godoc
// @Summary      Stock of one product in one warehouse
// @Description  Returns zero quantity when the product was never stocked there
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID"
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Security     BearerAuth
// @Router       /inventory/{warehouse_id}/{product_id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "warehouse_id")
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "product_id")
	if !ok {
		return
	}
	item, err := h.stockService.GetStock(c.Request.Context(), actor, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Manual correction after a count, breakage or loss
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.stockService.AdjustStock(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
