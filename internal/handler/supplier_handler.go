package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	supplierService    service.SupplierService
	procurementService service.ProcurementService
}

func NewSupplierHandler(supplierService service.SupplierService, procurementService service.ProcurementService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, procurementService: procurementService}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/api/suppliers", middleware.RequireStaff())
	{
		suppliers.POST("", h.Create)
		suppliers.GET("", h.List)
		suppliers.GET("/:id", h.GetByID)
		suppliers.PUT("/:id", h.Update)
		suppliers.DELETE("/:id", h.Delete)
		suppliers.POST("/:id/phones", h.AddPhone)
	}

	quotations := router.Group("/api/inventoryQuotation", middleware.RequireStaff())
	{
		quotations.POST("", h.CreateQuotation)
		quotations.GET("", h.ListQuotations)
		quotations.GET("/:id", h.GetQuotation)
		quotations.PUT("/:id/approve", middleware.RequireOwner(), h.ApproveQuotation)
		quotations.PUT("/:id/reject", middleware.RequireOwner(), h.RejectQuotation)
	}

	orders := router.Group("/api/inventoryOrder")
	{
		orders.POST("", middleware.RequireStaff(), h.CreateOrder)
		orders.GET("", middleware.RequireStaff(), h.ListOrders)
		orders.GET("/:id", middleware.RequireStaff(), h.GetOrder)
		// supplier-facing acknowledgement, keyed by quotation, no staff login
		orders.PUT("/confirm/:quotationId", h.ConfirmOrder)
		orders.PUT("/:id/receive", middleware.RequireStaff(), h.ReceiveOrder)
		orders.PUT("/:id/reject", middleware.RequireStaff(), h.RejectOrder)
	}
}

// Create registers a supplier
// @Summary      Create supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierRequest  true  "Supplier payload"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Failure      400      {object}  response.Response
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// List returns suppliers, searchable by name or email
// @Summary      List suppliers
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        search  query  string  false  "Search by name or email"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	suppliers, total, err := h.supplierService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// GetByID returns one supplier with phones
// @Summary      Get supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=model.Supplier}
// @Failure      404  {object}  response.Response
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	supplier, err := h.supplierService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// Update edits a supplier's details
// @Summary      Update supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Supplier ID"
// @Param        payload  body  service.UpdateSupplierRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=model.Supplier}
// @Failure      400  {object}  response.Response
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// Delete soft-deletes a supplier
// @Summary      Delete supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.supplierService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier deleted"}))
}

// AddPhone attaches another phone number to a supplier
// @Summary      Add supplier phone
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "Supplier ID"
// @Param        payload  body  object  true  "{\"number\": \"0112345678\"}"
// @Success      200  {object}  response.Response{data=model.Supplier}
// @Failure      400  {object}  response.Response
// @Router       /api/suppliers/{id}/phones [post]
func (h *SupplierHandler) AddPhone(c *gin.Context) {
	var req struct {
		Number string `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.AddPhone(c.Request.Context(), c.Param("id"), req.Number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// CreateQuotation records a supplier's offered price for an item
// @Summary      Create quotation
// @Tags         procurement
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateQuotationRequest  true  "Quotation payload"
// @Success      201      {object}  response.Response{data=model.SupplierQuotation}
// @Failure      400      {object}  response.Response
// @Router       /api/inventoryQuotation [post]
func (h *SupplierHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quotation, err := h.procurementService.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quotation))
}

// ListQuotations returns quotations filtered by status or supplier
// @Summary      List quotations
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        limit        query  int     false  "Items per page (default 20)"
// @Param        status       query  string  false  "Filter by status"
// @Param        supplier_id  query  string  false  "Filter by supplier"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventoryQuotation [get]
func (h *SupplierHandler) ListQuotations(c *gin.Context) {
	params := pagination.Parse(c)

	quotations, total, err := h.procurementService.ListQuotations(c.Request.Context(), params.Page, params.Limit, c.Query("status"), c.Query("supplier_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"quotations": quotations,
		"total":      total,
		"page":       params.Page,
		"limit":      params.Limit,
	}))
}

// GetQuotation returns one quotation
// @Summary      Get quotation
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quotation ID"
// @Success      200  {object}  response.Response{data=model.SupplierQuotation}
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryQuotation/{id} [get]
func (h *SupplierHandler) GetQuotation(c *gin.Context) {
	quotation, err := h.procurementService.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// ApproveQuotation approves a pending quotation; retries are no-ops
// @Summary      Approve quotation
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quotation ID"
// @Success      200  {object}  response.Response{data=model.SupplierQuotation}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryQuotation/{id}/approve [put]
func (h *SupplierHandler) ApproveQuotation(c *gin.Context) {
	actorID := c.GetString("employeeID")

	quotation, err := h.procurementService.ApproveQuotation(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// RejectQuotation rejects a pending quotation
// @Summary      Reject quotation
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quotation ID"
// @Success      200  {object}  response.Response{data=model.SupplierQuotation}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryQuotation/{id}/reject [put]
func (h *SupplierHandler) RejectQuotation(c *gin.Context) {
	actorID := c.GetString("employeeID")

	quotation, err := h.procurementService.RejectQuotation(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// CreateOrder places a purchase order against an approved quotation
// @Summary      Create inventory order
// @Tags         procurement
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order payload"
// @Success      201      {object}  response.Response{data=model.InventoryOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/inventoryOrder [post]
func (h *SupplierHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID := c.GetString("employeeID")

	order, err := h.procurementService.CreateOrder(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders returns orders, optionally filtered by status
// @Summary      List inventory orders
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventoryOrder [get]
func (h *SupplierHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.procurementService.ListOrders(c.Request.Context(), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder returns one order
// @Summary      Get inventory order
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.InventoryOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryOrder/{id} [get]
func (h *SupplierHandler) GetOrder(c *gin.Context) {
	order, err := h.procurementService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ConfirmOrder lets the supplier acknowledge an order via its quotation id
// @Summary      Confirm inventory order
// @Description  Supplier-side acknowledgement; the order is located by quotation id
// @Tags         procurement
// @Produce      json
// @Param        quotationId  path  string  true  "Quotation ID"
// @Success      200  {object}  response.Response{data=model.InventoryOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/inventoryOrder/confirm/{quotationId} [put]
func (h *SupplierHandler) ConfirmOrder(c *gin.Context) {
	order, err := h.procurementService.ConfirmOrderByQuotation(c.Request.Context(), c.Param("quotationId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ReceiveOrder marks goods arrival on a confirmed order
// @Summary      Receive inventory order
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.InventoryOrder}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryOrder/{id}/receive [put]
func (h *SupplierHandler) ReceiveOrder(c *gin.Context) {
	actorID := c.GetString("employeeID")

	order, err := h.procurementService.ReceiveOrder(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RejectOrder cancels a pending order
// @Summary      Reject inventory order
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.InventoryOrder}
// @Failure      400  {object}  response.Response
// @Router       /api/inventoryOrder/{id}/reject [put]
func (h *SupplierHandler) RejectOrder(c *gin.Context) {
	actorID := c.GetString("employeeID")

	order, err := h.procurementService.RejectOrder(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
