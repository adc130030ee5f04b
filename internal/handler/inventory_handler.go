package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/inventoryItem", middleware.RequireStaff())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}

	batches := router.Group("/api/inventoryBatch", middleware.RequireStaff())
	{
		batches.POST("", h.CreateBatch)
		batches.GET("", h.ListBatches)
		batches.GET("/:id", h.GetBatch)
		batches.PUT("/:id", h.UpdateBatch)
		batches.DELETE("/:id", h.DeleteBatch)
	}

	router.GET("/api/inventoryPurchases", middleware.RequireStaff(), h.ListPurchases)

	used := router.Group("/api/jobUsedInventory", middleware.RequireStaff())
	{
		used.POST("", h.ConsumeStock)
		used.PUT("/:id", h.UpdateConsumption)
		used.DELETE("/:id", h.DeleteConsumption)
	}
}

// CreateItem creates a stock item definition
// @Summary      Create inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Item payload"
// @Success      201      {object}  response.Response{data=model.InventoryItem}
// @Failure      400      {object}  response.Response
// @Router       /api/inventoryItem [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems returns stock items, searchable by name
// @Summary      List inventory items
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        search  query  string  false  "Search by name"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventoryItem [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem returns one stock item
// @Summary      Get inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.InventoryItem}
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryItem/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.inventoryService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem edits a stock item definition
// @Summary      Update inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Item ID"
// @Param        payload  body  service.UpdateItemRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=model.InventoryItem}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryItem/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem soft-deletes a stock item
// @Summary      Delete inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryItem/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.inventoryService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item deleted"}))
}

// CreateBatch records a stock delivery and its ledger entry
// @Summary      Create inventory batch
// @Description  Creates the batch and mirrors it into the immutable purchase ledger
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBatchRequest  true  "Batch payload"
// @Success      201      {object}  response.Response{data=service.BatchResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/inventoryBatch [post]
func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	batch, err := h.inventoryService.CreateBatch(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, batch))
}

// ListBatches returns batches, optionally filtered by item
// @Summary      List inventory batches
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page     query  int     false  "Page number (default 1)"
// @Param        limit    query  int     false  "Items per page (default 20)"
// @Param        item_id  query  string  false  "Filter by item"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventoryBatch [get]
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	params := pagination.Parse(c)

	batches, total, err := h.inventoryService.ListBatches(c.Request.Context(), params.Page, params.Limit, c.Query("item_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"batches": batches,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetBatch returns one batch
// @Summary      Get inventory batch
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Batch ID"
// @Success      200  {object}  response.Response{data=service.BatchResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryBatch/{id} [get]
func (h *InventoryHandler) GetBatch(c *gin.Context) {
	batch, err := h.inventoryService.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, batch))
}

// UpdateBatch edits the mutable batch view; the purchase ledger is untouched
// @Summary      Update inventory batch
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Batch ID"
// @Param        payload  body  service.UpdateBatchRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.BatchResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryBatch/{id} [put]
func (h *InventoryHandler) UpdateBatch(c *gin.Context) {
	var req service.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	batch, err := h.inventoryService.UpdateBatch(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, batch))
}

// DeleteBatch soft-deletes a batch; its ledger entry remains
// @Summary      Delete inventory batch
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Batch ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryBatch/{id} [delete]
func (h *InventoryHandler) DeleteBatch(c *gin.Context) {
	actorID := c.GetString("employeeID")

	if err := h.inventoryService.DeleteBatch(c.Request.Context(), actorID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "batch deleted"}))
}

// ListPurchases returns the intake ledger over a date range
// @Summary      List purchase ledger
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int     false  "Page number (default 1)"
// @Param        limit  query  int     false  "Items per page (default 20)"
// @Param        from   query  string  false  "Start date YYYY-MM-DD"
// @Param        to     query  string  false  "End date YYYY-MM-DD"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventoryPurchases [get]
func (h *InventoryHandler) ListPurchases(c *gin.Context) {
	params := pagination.Parse(c)

	purchases, total, err := h.inventoryService.ListPurchases(c.Request.Context(), params.Page, params.Limit, c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// ConsumeStock takes parts from a batch for a job
// @Summary      Consume stock
// @Description  Decrements the batch and snapshots the cost at the current unit price
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ConsumeStockRequest  true  "Consumption payload"
// @Success      201      {object}  response.Response{data=service.ConsumptionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/jobUsedInventory [post]
func (h *InventoryHandler) ConsumeStock(c *gin.Context) {
	var req service.ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	row, err := h.inventoryService.ConsumeStock(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// UpdateConsumption changes a recorded quantity, restoring stock first
// @Summary      Update consumption
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Consumption ID"
// @Param        payload  body  service.UpdateConsumptionRequest  true  "New quantity"
// @Success      200  {object}  response.Response{data=service.ConsumptionResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/jobUsedInventory/{id} [put]
func (h *InventoryHandler) UpdateConsumption(c *gin.Context) {
	var req service.UpdateConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	row, err := h.inventoryService.UpdateConsumption(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// DeleteConsumption removes a consumption record and restores the batch
// @Summary      Delete consumption
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Consumption ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobUsedInventory/{id} [delete]
func (h *InventoryHandler) DeleteConsumption(c *gin.Context) {
	actorID := c.GetString("employeeID")

	if err := h.inventoryService.DeleteConsumption(c.Request.Context(), actorID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "consumption deleted"}))
}
