package handler

import (
	"net/http"

	reportapp "github.com/gemline/backoffice/internal/application/report"
	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the sales, inventory, payroll and attendance reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Get godoc
// @Summary      Run a report
// @Description  format=json (the default) answers with rows; csv, xlsx and pdf download a file
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        type path string true "sales, inventory, payroll or attendance"
// @Param        format query string false "json, csv, xlsx or pdf"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        store_id query string false "Store ID"
// @Param        month query int false "Payroll month"
// @Param        year query int false "Payroll year"
// @Success      200 {object} dto.Response{data=reportapp.Result}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{type} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	typ, q, ok := h.parse(c)
	if !ok {
		return
	}

	format, err := report.ParseFormat(q.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if format == report.FormatJSON {
		result, err := h.reportService.Query(c.Request.Context(), actor, typ, q)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	file, err := h.reportService.Export(c.Request.Context(), actor, typ, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Archive godoc
// @Summary      Archive a report export
// @Description  Renders the report and stores it in object storage, answering with a time-limited download link
// @Tags         reports
// @Produce      json
// @Param        type path string true "sales, inventory, payroll or attendance"
// @Param        format query string true "csv, xlsx or pdf"
// @Success      201 {object} dto.Response{data=reportapp.ArchiveResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/{type}/archive [post]
func (h *ReportHandler) Archive(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	typ, q, ok := h.parse(c)
	if !ok {
		return
	}
	archived, err := h.reportService.Archive(c.Request.Context(), actor, typ, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, archived)
}

func (h *ReportHandler) parse(c *gin.Context) (report.Type, reportapp.Query, bool) {
	var q reportapp.Query
	typ, err := report.ParseType(c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return "", q, false
	}
	if !h.bindQuery(c, &q) {
		return "", q, false
	}
	return typ, q, true
}
