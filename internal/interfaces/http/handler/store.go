package handler

import (
	storeapp "github.com/gemline/backoffice/internal/application/store"
	"github.com/gin-gonic/gin"
)

// StoreHandler handles store directory endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create godoc
// @Summary      Open a store
// @Description  Creates the store and, unless skip_warehouse is set, its back-room warehouse
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body storeapp.CreateStoreRequest true "Store"
// @Success      201 {object} dto.Response{data=storeapp.StoreResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req storeapp.CreateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// GetByID godoc
// @Summary      Get a store
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID"
// @Success      200 {object} dto.Response{data=storeapp.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [get]
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	store, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List godoc
// @Summary      List stores
// @Tags         stores
// @Produce      json
// @Param        status query string false "active or closed"
// @Param        city query string false "City"
// @Success      200 {object} dto.Response{data=[]storeapp.StoreResponse}
// @Security     BearerAuth
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var filter storeapp.StoreListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	stores, total, err := h.storeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, stores, total, filter.PageQuery)
}

// Update godoc
// @Summary      Update a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID"
// @Param        request body storeapp.UpdateStoreRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=storeapp.StoreResponse}
// @Security     BearerAuth
// @Router       /stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Close godoc
// @Summary      Close a store
// @Tags         stores
// @Param        id path string true "Store ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/close [post]
func (h *StoreHandler) Close(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.storeService.Close(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
