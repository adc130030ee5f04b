package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products", middleware.RequireStaff())
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}

// imageFromForm pulls an optional "image" file out of a multipart request.
func imageFromForm(c *gin.Context) (*service.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil // no image attached
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Filename: fileHeader.Filename, Reader: f}, nil
}

// Create registers a device for a customer; accepts multipart with an
// optional image file
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        customer_id  formData  string  true   "Owning customer ID"
// @Param        name         formData  string  true   "Device name"
// @Param        model        formData  string  false  "Model"
// @Param        model_no     formData  string  false  "Model number"
// @Param        image        formData  file    false  "Device photo"
// @Success      201  {object}  response.Response{data=model.Product}
// @Failure      400  {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	req := service.CreateProductRequest{
		CustomerID: c.PostForm("customer_id"),
		Name:       c.PostForm("name"),
		Model:      c.PostForm("model"),
		ModelNo:    c.PostForm("model_no"),
	}
	if req.CustomerID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "customer_id and name are required"))
		return
	}

	image, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "could not read image: "+err.Error()))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// List returns products, searchable by name or model
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        search  query  string  false  "Search by name or model"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	products, total, err := h.productService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetByID returns one product
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Update edits a product; accepts multipart with an optional replacement image
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true   "Product ID"
// @Param        name      formData  string  true   "Device name"
// @Param        model     formData  string  false  "Model"
// @Param        model_no  formData  string  false  "Model number"
// @Param        image     formData  file    false  "Replacement photo"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	req := service.UpdateProductRequest{
		Name:    c.PostForm("name"),
		Model:   c.PostForm("model"),
		ModelNo: c.PostForm("model_no"),
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "name is required"))
		return
	}

	image, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "could not read image: "+err.Error()))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Delete soft-deletes a product
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "product deleted"}))
}
