package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	auditRepo     repository.AuditRepository
}

func NewReportHandler(reportService service.ReportService, auditRepo repository.AuditRepository) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditRepo: auditRepo}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireOwner())
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/purchases", h.Purchases)
		reports.GET("/valuation", h.Valuation)
		reports.GET("/income", h.Income)
	}

	router.GET("/api/audit-logs", middleware.RequireOwner(), h.AuditLogs)
}

// Dashboard returns entity counts and job status breakdown
// @Summary      Dashboard report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardReport}
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Purchases aggregates the intake ledger per item over a date range
// @Summary      Purchase report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  false  "Start date YYYY-MM-DD (default 30 days ago)"
// @Param        to    query  string  false  "End date YYYY-MM-DD (default today)"
// @Success      200  {object}  response.Response{data=model.PurchaseReport}
// @Router       /api/reports/purchases [get]
func (h *ReportHandler) Purchases(c *gin.Context) {
	report, err := h.reportService.PurchaseReport(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Valuation values remaining stock at batch prices
// @Summary      Stock valuation report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.ValuationReport}
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *gin.Context) {
	report, err := h.reportService.ValuationReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Income sums invoices and deposits over a date range
// @Summary      Income report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  false  "Start date YYYY-MM-DD (default 30 days ago)"
// @Param        to    query  string  false  "End date YYYY-MM-DD (default today)"
// @Success      200  {object}  response.Response{data=model.IncomeReport}
// @Router       /api/reports/income [get]
func (h *ReportHandler) Income(c *gin.Context) {
	report, err := h.reportService.IncomeReport(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// AuditLogs returns the action trail, newest first
// @Summary      Get audit logs
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/audit-logs [get]
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditRepo.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
