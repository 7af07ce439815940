package handler

import (
	workforceapp "github.com/gemline/backoffice/internal/application/workforce"
	"github.com/gin-gonic/gin"
)

// ShiftHandler handles the shift schedule
type ShiftHandler struct {
	BaseHandler
	shiftService *workforceapp.ShiftService
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(shiftService *workforceapp.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Create godoc
// @Summary      Schedule a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.CreateShiftRequest true "Shift"
// @Success      201 {object} dto.Response{data=workforceapp.ShiftResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req workforceapp.CreateShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shift, err := h.shiftService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shift)
}

// Get godoc
// @Summary      Get a shift
// @Tags         shifts
// @Produce      json
// @Param        id path string true "Shift ID"
// @Success      200 {object} dto.Response{data=workforceapp.ShiftResponse}
// @Security     BearerAuth
// @Router       /shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	shift, err := h.shiftService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// List godoc
// @Summary      List shifts
// @Tags         shifts
// @Produce      json
// @Param        store_id query string false "Store ID"
// @Param        user_id query string false "Staff ID"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]workforceapp.ShiftResponse}
// @Security     BearerAuth
// @Router       /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter workforceapp.ShiftListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	shifts, total, err := h.shiftService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, shifts, total, filter.PageQuery)
}

// Update godoc
// @Summary      Move or annotate a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id path string true "Shift ID"
// @Param        request body workforceapp.UpdateShiftRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=workforceapp.ShiftResponse}
// @Security     BearerAuth
// @Router       /shifts/{id} [put]
func (h *ShiftHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req workforceapp.UpdateShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shift, err := h.shiftService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Cancel godoc
// @Summary      Cancel a shift
// @Tags         shifts
// @Param        id path string true "Shift ID"
// @Success      200 {object} dto.Response{data=workforceapp.ShiftResponse}
// @Security     BearerAuth
// @Router       /shifts/{id}/cancel [post]
func (h *ShiftHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	shift, err := h.shiftService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// AttendanceHandler handles clocking in and out
type AttendanceHandler struct {
	BaseHandler
	attendanceService *workforceapp.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(attendanceService *workforceapp.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ClockIn godoc
// @Summary      Clock in
// @Tags         attendance
// @Produce      json
// @Success      201 {object} dto.Response{data=workforceapp.AttendanceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	record, err := h.attendanceService.ClockIn(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// ClockOut godoc
// @Summary      Clock out
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=workforceapp.AttendanceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	record, err := h.attendanceService.ClockOut(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List godoc
// @Summary      List attendance records
// @Description  Sales associates only see their own records
// @Tags         attendance
// @Produce      json
// @Param        store_id query string false "Store ID"
// @Param        user_id query string false "Staff ID"
// @Param        status query string false "open or closed"
// @Success      200 {object} dto.Response{data=[]workforceapp.AttendanceResponse}
// @Security     BearerAuth
// @Router       /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter workforceapp.AttendanceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	records, total, err := h.attendanceService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, records, total, filter.PageQuery)
}

// Correct godoc
// @Summary      Correct an attendance record
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id path string true "Attendance ID"
// @Param        request body workforceapp.CorrectAttendanceRequest true "Corrected times"
// @Success      200 {object} dto.Response{data=workforceapp.AttendanceResponse}
// @Security     BearerAuth
// @Router       /attendance/{id} [put]
func (h *AttendanceHandler) Correct(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req workforceapp.CorrectAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record, err := h.attendanceService.Correct(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
