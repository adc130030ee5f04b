package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type JobHandler struct {
	jobService       service.JobService
	inventoryService service.InventoryService
	invoiceService   service.InvoiceService
}

func NewJobHandler(
	jobService service.JobService,
	inventoryService service.InventoryService,
	invoiceService service.InvoiceService,
) *JobHandler {
	return &JobHandler{
		jobService:       jobService,
		inventoryService: inventoryService,
		invoiceService:   invoiceService,
	}
}

func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/api/jobs", middleware.RequireStaff())
	{
		jobs.POST("/register", h.Register)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.GetByID)
		jobs.PUT("/:id", h.Update)
		jobs.PUT("/:id/status", h.UpdateStatus)
		jobs.GET("/:id/inventory", h.ListUsedInventory)
		jobs.GET("/:id/invoice", h.GetInvoice)
		jobs.GET("/:id/advance-invoice", h.GetAdvance)
	}
}

// Register opens a repair job, creating the customer and device on the fly
// when they are new. Accepts either a JSON body or multipart form with a
// "data" JSON field plus an optional "image" file.
// @Summary      Register job
// @Tags         jobs
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        data   formData  string  true   "Registration payload as JSON"
// @Param        image  formData  file    false  "Device photo"
// @Success      201  {object}  response.Response{data=service.JobResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/jobs/register [post]
func (h *JobHandler) Register(c *gin.Context) {
	var req service.RegisterJobRequest
	var image *service.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := json.Unmarshal([]byte(c.PostForm("data")), &req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid data field: "+err.Error()))
			return
		}
		// The struct tags are not enforced by a bare unmarshal
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
		var err error
		image, err = imageFromForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "could not read image: "+err.Error()))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	job, err := h.jobService.Register(c.Request.Context(), actorID, req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// List returns jobs, optionally filtered by status
// @Summary      List jobs
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	jobs, total, err := h.jobService.List(c.Request.Context(), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetByID returns one job with its relations
// @Summary      Get job
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// Update edits a job's description, handover date, rating and feedback
// @Summary      Update job
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Job ID"
// @Param        payload  body  service.UpdateJobRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	var req service.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// UpdateStatus moves a job along its lifecycle
// @Summary      Update job status
// @Description  Allowed moves: pending to on progress or cancelled, on progress to completed or cancelled, completed to paid
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "Job ID"
// @Param        payload  body  object  true  "{\"status\": \"on progress\"}"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/jobs/{id}/status [put]
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	job, err := h.jobService.UpdateStatus(c.Request.Context(), actorID, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// ListUsedInventory returns the parts consumed by a job
// @Summary      List job consumption
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/inventory [get]
func (h *JobHandler) ListUsedInventory(c *gin.Context) {
	rows, err := h.inventoryService.ListConsumptionByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"used_inventory": rows}))
}

// GetInvoice returns the job's final invoice, if issued
// @Summary      Get job invoice
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/invoice [get]
func (h *JobHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetAdvance returns the job's deposit record, if taken
// @Summary      Get job advance invoice
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=model.AdvanceInvoice}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/advance-invoice [get]
func (h *JobHandler) GetAdvance(c *gin.Context) {
	advance, err := h.invoiceService.GetAdvanceByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, advance))
}
