package handler

import (
	"context"

	inventoryapp "github.com/gemline/backoffice/internal/application/inventory"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles stock transfers between warehouses
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Request godoc
// @Summary      Request a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.RequestTransferRequest true "Transfer"
// @Success      201 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers [post]
func (h *TransferHandler) Request(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.RequestTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	transfer, err := h.transferService.RequestTransfer(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// Get godoc
// @Summary      Get a transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	h.act(c, h.transferService.GetTransfer)
}

// List godoc
// @Summary      List transfers
// @Tags         transfers
// @Produce      json
// @Param        status query string false "pending, approved, rejected or completed"
// @Param        warehouse_id query string false "Either end of the transfer"
// @Param        product_id query string false "Product ID"
// @Success      200 {object} dto.Response{data=[]inventoryapp.TransferResponse}
// @Security     BearerAuth
// @Router       /transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter inventoryapp.TransferListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	transfers, total, err := h.transferService.ListTransfers(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, transfers, total, filter.PageQuery)
}

// Approve godoc
// @Summary      Approve a pending transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *gin.Context) {
	h.act(c, h.transferService.ApproveTransfer)
}

// Reject godoc
// @Summary      Reject a pending transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Param        request body inventoryapp.RejectTransferRequest true "Reason"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Security     BearerAuth
// @Router       /transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *gin.Context) {
	var req inventoryapp.RejectTransferRequest
	h.actWithBody(c, &req, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*inventoryapp.TransferResponse, error) {
		return h.transferService.RejectTransfer(ctx, actor, id, req.Reason)
	})
}

// Complete godoc
// @Summary      Complete an approved transfer
// @Description  Moves the stock: both rows are locked and updated in one transaction
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *gin.Context) {
	h.act(c, h.transferService.CompleteTransfer)
}

type transferAction func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*inventoryapp.TransferResponse, error)

func (h *TransferHandler) act(c *gin.Context, fn transferAction) {
	h.actWithBody(c, nil, fn)
}

// actWithBody runs fn on the transfer named in the path, binding body first when given
func (h *TransferHandler) actWithBody(c *gin.Context, body any, fn transferAction) {
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
	transfer, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}
