package handler

import (
	payrollapp "github.com/gemline/backoffice/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// PayrollHandler handles monthly payroll
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Generate godoc
// @Summary      Generate payroll for a month
// @Description  Idempotent: staff who already have a record for the month are skipped
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.GenerateRequest true "Month and year"
// @Success      200 {object} dto.Response{data=payrollapp.Summary}
// @Security     BearerAuth
// @Router       /payrolls/generate [post]
func (h *PayrollHandler) Generate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req payrollapp.GenerateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	summary, err := h.payrollService.GenerateForActor(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// List godoc
// @Summary      List payroll records
// @Tags         payroll
// @Produce      json
// @Param        month query int false "Month"
// @Param        year query int false "Year"
// @Param        store_id query string false "Store ID"
// @Param        user_id query string false "Staff ID"
// @Param        status query string false "pending, approved or paid"
// @Success      200 {object} dto.Response{data=[]payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls [get]
func (h *PayrollHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter payrollapp.PayrollListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	records, total, err := h.payrollService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, records, total, filter.PageQuery)
}

// Get godoc
// @Summary      Get a payroll record
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Payroll ID"
// @Success      200 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id} [get]
func (h *PayrollHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payrollService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Approve godoc
// @Summary      Approve a payroll record
// @Tags         payroll
// @Param        id path string true "Payroll ID"
// @Success      200 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id}/approve [post]
func (h *PayrollHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payrollService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// MarkPaid godoc
// @Summary      Mark an approved payroll record as paid
// @Tags         payroll
// @Param        id path string true "Payroll ID"
// @Success      200 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Security     BearerAuth
// @Router       /payrolls/{id}/pay [post]
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payrollService.MarkPaid(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
