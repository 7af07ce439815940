package handler

import (
	"context"

	tradeapp "github.com/gemline/backoffice/internal/application/trade"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderHandler handles purchase orders to suppliers
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseService: purchaseService}
}

type purchaseAction func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*tradeapp.PurchaseOrderResponse, error)

// Create godoc
// @Summary      Draft a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.purchaseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// List godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        supplier_id query string false "Supplier ID"
// @Param        warehouse_id query string false "Receiving warehouse ID"
// @Param        status query string false "draft, submitted, approved, received or cancelled"
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter tradeapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.purchaseService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, orders, total, filter.PageQuery)
}

// Get godoc
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	h.act(c, nil, h.purchaseService.Get)
}

// Update godoc
// @Summary      Edit a draft purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        request body tradeapp.UpdatePurchaseOrderRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	var req tradeapp.UpdatePurchaseOrderRequest
	h.act(c, &req, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*tradeapp.PurchaseOrderResponse, error) {
		return h.purchaseService.Update(ctx, actor, id, req)
	})
}

// Submit godoc
// @Summary      Submit a draft for approval
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	h.act(c, nil, h.purchaseService.Submit)
}

// Approve godoc
// @Summary      Approve a submitted purchase order
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	h.act(c, nil, h.purchaseService.Approve)
}

// Receive godoc
// @Summary      Receive an approved purchase order
// @Description  Adds every line to the receiving warehouse and re-averages its unit cost
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	h.act(c, nil, h.purchaseService.Receive)
}

// Cancel godoc
// @Summary      Cancel a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Param        id path string true "Purchase order ID"
// @Param        request body tradeapp.CancelPurchaseOrderRequest false "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelPurchaseOrderRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	po, err := h.purchaseService.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

func (h *PurchaseOrderHandler) act(c *gin.Context, body any, fn purchaseAction) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if body != nil && !h.bindJSON(c, body) {
		return
	}
	po, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}
