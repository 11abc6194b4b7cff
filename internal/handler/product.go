package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/productdb/backend/internal/model"
	"github.com/productdb/backend/internal/service"
)

type ProductHandler struct {
	svc    *service.ProductService
	logger *slog.Logger
}

func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 403 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, opList, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetProduct godoc
// @Summary Get product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.writeError(c, opGet, service.ErrNotFound)
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, opGet, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct godoc
// @Summary Create product
// @Description Fails with 409 when another product already has the name.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProductInput true "Product fields"
// @Success 201 {object} model.ProductCreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, opCreate, service.ErrInvalidInput)
		return
	}

	id, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, opCreate, err)
		return
	}
	c.JSON(http.StatusCreated, model.ProductCreatedResponse{
		Message: "Product created",
		ID:      id,
	})
}

// UpdateProduct godoc
// @Summary Update product
// @Description Replaces name, price and description.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body model.ProductInput true "Product fields"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.writeError(c, opUpdate, service.ErrNotFound)
		return
	}

	var req model.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, opUpdate, service.ErrInvalidInput)
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		h.writeError(c, opUpdate, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Product updated successfully"})
}

// DeleteProduct godoc
// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} model.MessageResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.writeError(c, opDelete, service.ErrNotFound)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, opDelete, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Product deleted successfully"})
}

// productID parses the :id segment. Non-numeric or non-positive ids cannot
// match a row.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
