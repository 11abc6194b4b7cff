package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/productdb/backend/internal/model"
	"github.com/productdb/backend/internal/service"
)

type productOp struct {
	name     string
	failure  string
	notFound string
}

var (
	opList   = productOp{name: "list", failure: "Failed to fetch products"}
	opGet    = productOp{name: "get", failure: "Failed to fetch product", notFound: "Product not found"}
	opCreate = productOp{name: "create", failure: "Failed to create product"}
	opUpdate = productOp{name: "update", failure: "Failed to update product", notFound: "Product not found"}
	opDelete = productOp{name: "delete", failure: "Failed to delete product", notFound: "Product does not exist"}
)

// writeError maps service errors onto status codes. Business outcomes get a
// short message; storage failures are logged in full and answered generically.
func (h *ProductHandler) writeError(c *gin.Context, op productOp, err error) {
	status, msg := http.StatusInternalServerError, op.failure
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, op.notFound
		if msg == "" {
			msg = "Product not found"
		}
	case errors.Is(err, service.ErrConflict):
		status, msg = http.StatusConflict, "Product already exists"
	case errors.Is(err, service.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "service unavailable"
	}

	attrs := []slog.Attr{
		slog.String("request_id", GetRequestID(c)),
		slog.String("op", op.name),
		slog.String("id", c.Param("id")),
		slog.Int("status_code", status),
		slog.String("error", err.Error()),
	}
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.LogAttrs(c.Request.Context(), level, "product request failed", attrs...)

	c.JSON(status, model.ErrorResponse{Error: msg})
}
